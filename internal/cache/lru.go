package cache

// entry is a node of the recency list. It carries the key so that the
// oldest entry can be dropped from the index in O(1).
type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// list is a doubly-linked recency list: front is the most recently used
// entry, back the least. It is not synchronized.
type list[K comparable, V any] struct {
	front *entry[K, V]
	back  *entry[K, V]
	len   int
}

func (l *list[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = l.front
	if l.front != nil {
		l.front.prev = e
	}
	l.front = e
	if l.back == nil {
		l.back = e
	}
	l.len++
}

func (l *list[K, V]) moveToFront(e *entry[K, V]) {
	if e == l.front {
		return
	}
	l.remove(e)
	l.pushFront(e)
}

// popBack unlinks and returns the least recently used entry, or nil.
func (l *list[K, V]) popBack() *entry[K, V] {
	e := l.back
	if e != nil {
		l.remove(e)
	}
	return e
}

func (l *list[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.front = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.back = e.prev
	}
	e.prev, e.next = nil, nil
	l.len--
}

func (l *list[K, V]) clear() {
	l.front, l.back, l.len = nil, nil, 0
}
