package relation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Relation is a finite boolean relation: a set of integer tuples of fixed
// arity over a shared domain {0, ..., size-1}. Relations are immutable once
// built.
type Relation struct {
	arity int
	rows  map[string]struct{}
}

// New builds a relation of the given arity from the listed tuples.
func New(arity int, tuples ...[]int) (Relation, error) {
	r := Relation{arity: arity, rows: make(map[string]struct{}, len(tuples))}
	for _, tuple := range tuples {
		if len(tuple) != arity {
			return Relation{}, fmt.Errorf("tuple %v has arity %d, want %d", tuple, len(tuple), arity)
		}
		r.rows[encode(tuple)] = struct{}{}
	}
	return r, nil
}

// MustNew is New, panicking on arity mismatch. Intended for literals in
// tests and examples.
func MustNew(arity int, tuples ...[]int) Relation {
	r, err := New(arity, tuples...)
	if err != nil {
		panic(err)
	}
	return r
}

// Arity returns the number of columns.
func (r Relation) Arity() int { return r.arity }

// Len returns the number of tuples.
func (r Relation) Len() int { return len(r.rows) }

// Has reports whether the tuple is in the relation.
func (r Relation) Has(tuple ...int) bool {
	if len(tuple) != r.arity {
		return false
	}
	_, ok := r.rows[encode(tuple)]
	return ok
}

// Tuples returns all tuples in lexicographic order.
func (r Relation) Tuples() [][]int {
	keys := make([]string, 0, len(r.rows))
	for k := range r.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]int, len(keys))
	for i, k := range keys {
		out[i] = decode(k, r.arity)
	}
	return out
}

// Equal reports whether two relations hold exactly the same tuples.
func (r Relation) Equal(other Relation) bool {
	if r.arity != other.arity || len(r.rows) != len(other.rows) {
		return false
	}
	for k := range r.rows {
		if _, ok := other.rows[k]; !ok {
			return false
		}
	}
	return true
}

// String renders the relation as a sorted tuple list, for test failures.
func (r Relation) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, tuple := range r.Tuples() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", tuple)
	}
	sb.WriteString("}")
	return sb.String()
}

func encode(tuple []int) string {
	parts := make([]string, len(tuple))
	for i, v := range tuple {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decode(key string, arity int) []int {
	if arity == 0 || key == "" {
		return []int{}
	}
	parts := strings.Split(key, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}
