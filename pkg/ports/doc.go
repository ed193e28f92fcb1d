/*
Package ports defines the driven-port interfaces of the espalier engine.

Following Hexagonal Architecture, the core depends only on these interfaces;
adapters (in pkg/adapters) provide concrete implementations.

  - Decomposer: the tree-decomposition oracle consumed by the
    tree-decomposition scheduling strategy.
  - ScheduleCache: persistence of nested schedules keyed by diagram
    fingerprint, enabling reuse of the nesting step across evaluations.

The package also ships contract test suites (RunScheduleCacheContract) that
every adapter implementation is expected to pass.
*/
package ports
