/*
Package domain contains the core data model for espalier: undirected wiring
diagrams and their schedules.

It defines the fundamental entities of the composition engine. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Diagram: an undirected wiring diagram. Boxes with ordered ports, junctions
    wiring ports together, and an outer interface of the diagram's own ports.
  - Scheduled: a Diagram plus a rooted forest of Composite nodes fixing the
    order in which boxes are contracted.
  - Nested: a Scheduled plus, per composite, the junctions outgoing from that
    composite's subtree (its connection points to the outside).

All collections are flat arrays addressed by dense integer ids (BoxID,
JunctionID, CompositeID) with adjacency maintained explicitly, so the forest
invariant is mechanically checkable.
*/
package domain
