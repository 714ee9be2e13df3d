// Package session persists the role, token, and role-specific identifier
// established by a successful login.
//
// # Components
//
//   - [Store] — the durable key-value boundary with all-or-nothing saves.
//   - [RedisStore] — Redis backend; one MULTI/EXEC per save.
//   - [FileStore] — local file backend; atomic replace via temp + rename.
//   - [Session] — the slot model with the mutual-exclusion invariant on
//     the guestId/employeeNumber/studentNumber identifier slots.
//
// # What this package must NOT do
//
//   - Apply expiry or TTL logic; sessions live until overwritten or cleared.
//   - Decide which identifier slot a role maps to — that is the flow's call.
package session
