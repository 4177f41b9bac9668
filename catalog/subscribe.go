package catalog

// broadcaster fans the latest view out to subscribers. Callers hold the
// owning machine's mutex for every method.
type broadcaster[V any] struct {
	subs map[int]chan V
	next int
}

func (b *broadcaster[V]) add(current V) (<-chan V, int) {
	if b.subs == nil {
		b.subs = make(map[int]chan V)
	}
	ch := make(chan V, 1)
	ch <- current

	id := b.next
	b.next++
	b.subs[id] = ch
	return ch, id
}

func (b *broadcaster[V]) remove(id int) {
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// publish replaces any undelivered view with v. It never blocks: the buffer
// is drained first and only publish sends on the channel.
func (b *broadcaster[V]) publish(v V) {
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}
