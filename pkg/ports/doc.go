/*
Package ports defines the driven ports (interfaces) of the checkmark tracker.

These interfaces decouple the accessibility engine from external implementations,
allowing a tracker to persist snapshots, load catalogs and receive emulator memory
from various backends.

# Key Interfaces

  - CatalogLoader: Loads the static location catalog (e.g., from a file, Loam or memory).
  - SnapshotStore: Persists and loads tracker Snapshots.
  - DistributedLocker: Serialises writers to the same session across replicas.
  - MemorySource: Feeds auto-tracking readings into a tracker.
  - Tracker: The surface host adapters (HTTP, MCP) drive.
*/
package ports
