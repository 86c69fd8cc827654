/*
Package domain contains the core value types of the checkmark tracker.

It defines the accessibility lattice every reachability computation is expressed in,
the persisted per-section record, the session Snapshot and the lifecycle hooks the
engine raises. This package is kept pure and free of I/O, following the Hexagonal
Architecture used by the rest of the module.

# Key Entities

  - AccessibilityLevel: totally ordered tier (None < Inspect < Partial < SequenceBreak < Normal)
    combined only with Meet (all of these must hold) and Join (any of these paths suffices).
  - SectionKind: selects how a Section derives Accessible and Accessibility.
  - SectionState: the persisted part of a Section (Available, UserManipulated, Marking).
  - Snapshot: a save file for one tracking session.
*/
package domain
