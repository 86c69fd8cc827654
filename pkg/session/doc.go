/*
Package session implements session management and persistence orchestration.

A tracker session has a single writer at a time. The Manager serialises access
per session ID inside one process and, when given a ports.DistributedLocker,
across replicas sharing the same SnapshotStore.
*/
package session
