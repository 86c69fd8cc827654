/*
Package observability provides tools for monitoring the checkmark engine.

It includes Prometheus collectors fed by lifecycle hooks, structured logging hooks
for auditing propagation, and a helper to combine several hook sets into one.
*/
package observability
