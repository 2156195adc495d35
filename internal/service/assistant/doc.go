// Package assistant implements the conversational board operations: listing
// boards and lists, creating lists and cards, and checking off checklist items
// by name.
//
// Requests carry loose, human-friendly hints. Missing required fields are
// reported back as an Ask before any call reaches Trello; everything else is
// resolved through the resolve package and normalized through the normalize
// package, then forwarded as strictly sequential Trello calls.
//
// The service depends on the TrelloAPI and ActivityLog interfaces defined in
// repository.go. It never imports net/http handlers or database drivers.
package assistant
