package docs

var topics = []Topic{
	{
		Name:    "markup",
		Title:   "Directive markup",
		Summary: "The tag syntax assistants use to emit files",
		Content: `
DIRECTIVE MARKUP

An assistant message may contain at most one directive block, delimited by
the configured start and end tags (defaults shown):

    <ablo-code>
      <ablo-thinking> free text </ablo-thinking>
      <ablo-write file_path="REQUIRED_STRING"> file content </ablo-write>
      <ablo-modify file_path="REQUIRED_STRING" changes="OPTIONAL_STRING"> file content </ablo-modify>
    </ablo-code>

Rules:

  - Tags are matched case-sensitively as literal strings, not as generic
    markup. Nesting a code block inside another is not supported.
  - Attribute values are double-quoted. Embedded quotes in file_path are
    undefined behavior.
  - write and modify elements may appear in any order, zero or more times.
    They are processed in document order.
  - An element missing file_path is dropped silently.
  - An element whose closing tag has not streamed in yet is incomplete and
    commits nothing until it closes.

Everything outside the block is chat text. Text before and after the block
is joined by a blank line in the cleaned display output.
`,
	},
	{
		Name:    "streaming",
		Title:   "Streaming behavior",
		Summary: "How growing message prefixes are handled",
		Content: `
STREAMING

The parser accepts successive, growing prefixes of the same message and
converges to the same result as a single parse of the final text.

While a block is mid-stream:

  - The display surface shows the longest chat text seen before the block;
    partial tag fragments are never shown.
  - If no chat text has been observed yet, the raw input is shown as an
    explicit fallback.
  - Incomplete write/modify elements commit nothing.

When the block closes, the display text is recomputed from the full message
(text before and after the block) and file commands are committed: new
content creates version 1, changed content bumps the version by one, and
identical content is a no-op.
`,
	},
	{
		Name:    "config",
		Title:   "Configuration",
		Summary: "config.yaml tags and storage settings",
		Content: `
CONFIGURATION

ablofiles reads .ablofiles/config.yaml (searched from the working directory
upward). All five tag strings are required and start-tag must differ from
end-tag; invalid tag configuration is rejected at startup, never mid-stream.

    tags:
      start-tag: '<ablo-code>'
      end-tag: '</ablo-code>'
      thinking-tag: ablo-thinking
      write-tag: ablo-write
      modify-tag: ablo-modify

    storage:
      backend: fs            # fs or sqlite
      root: .ablofiles       # fs backend: directory for files/ and sessions/
      # db-path: .ablofiles/ablofiles.db   # sqlite backend

Storage is a best-effort mirror: a failed write is logged as a warning and
the in-memory file table stays authoritative for the session.
`,
	},
	{
		Name:    "versions",
		Title:   "File versioning",
		Summary: "When versions bump and when they do not",
		Content: `
FILE VERSIONING

Every committed file carries a positive version starting at 1.

  - The first complete write or modify for a path creates version 1.
  - A later complete command with different content replaces the content,
    bumps the version by exactly one, and records the source message id.
  - A complete command with identical content is a no-op: no version bump,
    no storage write.

Versions for a path are therefore non-decreasing over the life of a
session, and re-parsing the same message never double-bumps.
`,
	},
}
