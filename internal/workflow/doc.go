// Package workflow decides which action a viewer may take on a task and which
// status that action produces.
//
// It is pure: no I/O and no shared mutable state. Callers read the stored
// task, build a TaskState, resolve, and persist the returned status
// themselves. Serializing concurrent writers of one task is the caller's job;
// nothing here can detect a stale status read.
package workflow
