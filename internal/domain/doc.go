// Package domain defines the core types shared by the board assistant.
//
// Types in this package are pure value objects with no behavior, no HTTP
// concerns and no upstream client dependencies. They are the shared language
// between handlers, services, the Trello client and the activity repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Shape predicates are allowed (they're pure functions on strings)
//   - Constants and enums belong here
package domain
