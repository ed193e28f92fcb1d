/*
Package schema defines the serialized forms of espalier diagrams and
schedules.

It covers three concerns:

  - Document: the YAML format for wiring diagrams with named junctions,
    parsed with Load/Parse and validated with aggregate error reporting.
  - EncodeNested/DecodeNested: the JSON wire form of a nested schedule, used
    by the schedule caches and the HTTP adapter.
  - Fingerprint: deterministic cache keys derived from a diagram's structure.
*/
package schema
