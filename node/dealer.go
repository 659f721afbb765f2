package node

import (
	"fmt"
	"reflect"
)

// Dealer hands out record types still to be visited, each type once.
type Dealer struct {
	needs []reflect.Type
	done  map[reflect.Type]struct{}
}

// Next pops the next record type not visited yet.
func (d *Dealer) Next() (rtype reflect.Type, ok bool) {
	for len(d.needs) > 0 {
		rtype, d.needs = d.needs[0], d.needs[1:]

		if _, exists := d.done[rtype]; !exists {
			d.Done(rtype)

			return rtype, true
		}
	}

	return nil, false
}

// Needs queues every record type reachable from rtype through
// pointers, sequences and mapping values.
func (d *Dealer) Needs(rtype reflect.Type) {
	for rtype != nil {
		switch rtype.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			rtype = rtype.Elem()
			continue
		case reflect.Map:
			d.Needs(rtype.Key())
			rtype = rtype.Elem()
			continue
		}

		break
	}

	if rtype == nil || ClassifyType(rtype) != VariantRecord {
		return
	}

	if _, exists := d.done[rtype]; !exists {
		d.needs = append(d.needs, rtype)
	}
}

func (d *Dealer) Done(rtype reflect.Type) {
	if d.done == nil {
		d.done = make(map[reflect.Type]struct{})
	}

	d.done[rtype] = struct{}{}
}

// Reachable returns roots and every record type reachable from their fields,
// in visiting order, building each descriptor table on the way.
// The first configuration error stops the walk.
func Reachable(roots ...reflect.Type) ([]reflect.Type, error) {
	var (
		d   Dealer
		out []reflect.Type
	)

	for _, root := range roots {
		d.Needs(root)
	}

	for {
		next, ok := d.Next()
		if !ok {
			return out, nil
		}

		fields, err := Fields(next)
		if err != nil {
			return out, fmt.Errorf("%s: %w", TypeName(next), err)
		}

		out = append(out, next)

		for _, fd := range fields {
			d.Needs(fd.Type)
		}
	}
}
