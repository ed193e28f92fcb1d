package schema

import "fmt"

// Validate checks the internal consistency of a diagram document: junction
// names must be unique and non-empty, every port and outer reference must
// resolve, box names must not repeat, and any generators section must match
// the boxes it describes. All failures are reported together.
func (doc *Document) Validate() error {
	var errs []error
	fail := func(field, reason string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Reason: fmt.Sprintf(reason, args...)})
	}

	junctions := make(map[string]bool, len(doc.Junctions))
	for i, name := range doc.Junctions {
		field := fmt.Sprintf("junctions[%d]", i)
		if name == "" {
			fail(field, "junction name must not be empty")
			continue
		}
		if junctions[name] {
			fail(field, "junction %q declared twice", name)
		}
		junctions[name] = true
	}

	boxNames := make(map[string]bool, len(doc.Boxes))
	for i, box := range doc.Boxes {
		if box.Name != "" {
			if boxNames[box.Name] {
				fail(fmt.Sprintf("boxes[%d].name", i), "box %q declared twice", box.Name)
			}
			boxNames[box.Name] = true
		}
		for k, port := range box.Ports {
			if !junctions[port] {
				fail(fmt.Sprintf("boxes[%d].ports[%d]", i, k), "unknown junction %q", port)
			}
		}
	}

	for i, port := range doc.Outer {
		if !junctions[port] {
			fail(fmt.Sprintf("outer[%d]", i), "unknown junction %q", port)
		}
	}

	if gen := doc.Generators; gen != nil {
		if gen.Size <= 0 {
			fail("generators.size", "domain size must be positive, got %d", gen.Size)
		}
		for name, tuples := range gen.Relations {
			if !boxNames[name] {
				fail(fmt.Sprintf("generators.relations[%s]", name), "no box named %q", name)
				continue
			}
			arity := -1
			for _, box := range doc.Boxes {
				if box.Name == name {
					arity = len(box.Ports)
					break
				}
			}
			for k, tuple := range tuples {
				field := fmt.Sprintf("generators.relations[%s][%d]", name, k)
				if len(tuple) != arity {
					fail(field, "tuple has arity %d, box has %d ports", len(tuple), arity)
					continue
				}
				for _, v := range tuple {
					if v < 0 || v >= gen.Size {
						fail(field, "value %d outside domain of size %d", v, gen.Size)
					}
				}
			}
		}
		for _, box := range doc.Boxes {
			if box.Name != "" {
				if _, ok := gen.Relations[box.Name]; !ok {
					fail("generators.relations", "missing relation for box %q", box.Name)
				}
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
