package mcpserver

// NoteModel describes the note fields and rules for MCP consumers.
const NoteModel = `# Pinboard Note Model

A note has these fields:

| Field       | Type     | Notes                                             |
|-------------|----------|---------------------------------------------------|
| id          | string   | Assigned by the service, never changes            |
| title       | string   | Required, at most 200 characters                  |
| content     | string   | Required, at most 10000 characters                |
| tags        | string[] | Lower-case, no duplicates, order kept             |
| color       | string   | yellow, blue, green, red, purple, orange, pink, gray (default yellow) |
| isPinned    | bool     | Pinned notes are always listed first              |
| createdAt   | string   | ISO-8601, set once                                |
| updatedAt   | string   | ISO-8601, refreshed on every change               |

## Listing

- Notes are ordered pinned first, then by updatedAt, newest first.
- Search ignores case and accents ("cafe" finds "Café") and looks at the
  title, the content and each tag.
- Tag filters match a note that has any of the selected tags.
- All given filters must hold at once.

## Writing

- Pass tags as a comma-separated string; they are trimmed and lower-cased.
- toggle_pin and duplicate_note work on notes from the last list_notes call.
- A duplicate is titled "<title> (Copy)", keeps content, tags and color,
  and is never pinned.
`
