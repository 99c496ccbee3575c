package source

// SourceType classifies what kind of resource a captured source is.
// It determines which CSL conversion branch applies downstream.
type SourceType string

const (
	TypeWebpage        SourceType = "webpage"
	TypeAcademic       SourceType = "academic"
	TypeAIConversation SourceType = "ai-conversation"
	TypeVideo          SourceType = "video"
	TypePodcast        SourceType = "podcast"
	TypePDF            SourceType = "pdf"
	TypeDocument       SourceType = "document"
	TypeSpreadsheet    SourceType = "spreadsheet"
	TypePresentation   SourceType = "presentation"
	TypeImage          SourceType = "image"
)

// KnownTypes lists every valid source type.
var KnownTypes = []SourceType{
	TypeWebpage, TypeAcademic, TypeAIConversation, TypeVideo, TypePodcast,
	TypePDF, TypeDocument, TypeSpreadsheet, TypePresentation, TypeImage,
}

// ValidType reports whether t is a member of the closed SourceType enumeration.
func ValidType(t SourceType) bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Author is a tagged choice between a personal name (Family/Given, either
// may be absent) and an organizational or unparsed literal name. Exactly one
// representation is populated per author.
type Author struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// Empty reports whether the author carries no name data at all.
func (a Author) Empty() bool {
	return a.Family == "" && a.Given == "" && a.Literal == ""
}

// Date is a CSL-style date triple. Year is mandatory whenever a date is
// represented at all; Month and Day are optional (zero means absent).
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// Metadata is the bibliographic core of a source record.
type Metadata struct {
	// Title is required and never empty once a record is assembled; the
	// assembler falls back to filename, domain, or "Untitled".
	Title string `json:"title"`

	// Authors is the ordered author list; may be empty.
	Authors []Author `json:"authors,omitempty"`

	// Issued is the publication date, if one was found on the page.
	Issued *Date `json:"issued,omitempty"`

	// Accessed is the capture moment, always set by the assembler.
	Accessed *Date `json:"accessed,omitempty"`

	URL            string `json:"url,omitempty"`
	DOI            string `json:"doi,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	ContainerTitle string `json:"container_title,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	Pages          string `json:"pages,omitempty"`
	Abstract       string `json:"abstract,omitempty"`
}

// OutputType classifies which tool output a document/notebook-style AI
// platform produced.
type OutputType string

const (
	OutputChat         OutputType = "chat"
	OutputAudioSummary OutputType = "audio-summary"
	OutputVideoSummary OutputType = "video-summary"
	OutputQuiz         OutputType = "quiz"
	OutputFlashcards   OutputType = "flashcards"
	OutputMindMap      OutputType = "mind-map"
	OutputReport       OutputType = "report"
)

// ToolContext describes the specific tool output an AI platform produced and
// the user-supplied source documents that fed it.
type ToolContext struct {
	OutputType OutputType `json:"output_type"`

	// Label is the human-readable name of the output type (e.g. "Audio Summary").
	Label string `json:"label,omitempty"`

	// FromSources indicates the output derived from user-supplied documents.
	FromSources bool `json:"from_sources,omitempty"`

	SourceCount int      `json:"source_count,omitempty"`
	SourceNames []string `json:"source_names,omitempty"`

	// Duration is a detected length for audio/video outputs (e.g. "12:34").
	Duration string `json:"duration,omitempty"`

	// Customization carries detected style/focus hints the user applied.
	Customization string `json:"customization,omitempty"`
}

// AIMetadata carries AI-conversation provenance. Present if and only if the
// record's type is ai-conversation.
type AIMetadata struct {
	ModelName         string       `json:"model_name,omitempty"`
	ModelVersion      string       `json:"model_version,omitempty"`
	ConversationTitle string       `json:"conversation_title,omitempty"`
	PromptText        string       `json:"prompt_text,omitempty"`
	ResponseExcerpt   string       `json:"response_excerpt,omitempty"`
	ShareURL          string       `json:"share_url,omitempty"`
	Tool              *ToolContext `json:"tool,omitempty"`
}

// Screenshot references captured visual evidence. Owned exclusively by the
// source record; its lifetime is tied to the record.
type Screenshot struct {
	ThumbPath  string `json:"thumb_path,omitempty"`
	FullPath   string `json:"full_path,omitempty"`
	CapturedAt int64  `json:"captured_at"`
}

// CaptureMethod describes how a source was captured.
type CaptureMethod string

const (
	CaptureManual    CaptureMethod = "manual"
	CaptureAutomatic CaptureMethod = "automatic"
	CaptureRecorded  CaptureMethod = "recorded"
)

// Provenance is the capture context retained for the origin trail.
type Provenance struct {
	// SessionID is the owning research session.
	SessionID string `json:"session_id,omitempty"`

	// PredecessorID links to the record this one was derived from,
	// forming a derivation chain (nullable).
	PredecessorID *string `json:"predecessor_id,omitempty"`

	Method CaptureMethod `json:"method,omitempty"`

	// Raw tab context at capture time.
	TabTitle  string `json:"tab_title,omitempty"`
	TabURL    string `json:"tab_url,omitempty"`
	Selection string `json:"selection,omitempty"`
}

// Record is the canonical persisted unit: one captured source.
type Record struct {
	// ID is a ULID that uniquely identifies this source, assigned at
	// capture time, immutable.
	ID string `json:"id"`

	// Type is the source category (closed enumeration).
	Type SourceType `json:"type"`

	// Platform optionally identifies the originating tool or site
	// (e.g. "chatgpt", "youtube"); drives per-platform CSL logic.
	Platform *string `json:"platform,omitempty"`

	Metadata Metadata `json:"metadata"`

	// AI is present if and only if Type == TypeAIConversation.
	AI *AIMetadata `json:"ai,omitempty"`

	Screenshot *Screenshot `json:"screenshot,omitempty"`

	// User additions.
	Notes   *string  `json:"notes,omitempty"`
	Excerpt *string  `json:"excerpt,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	// GroupIDs is the many-to-many relation to user-defined groups.
	GroupIDs []string `json:"group_ids,omitempty"`

	Provenance Provenance `json:"provenance"`

	// CreatedAt is the Unix timestamp when the source was captured.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt changes on any later edit (tags, notes, groups, soft-delete).
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable). Deletion
	// is metadata-only: provenance and CreatedAt survive indefinitely.
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// Deleted reports whether the record is soft-deleted.
func (r *Record) Deleted() bool {
	return r.DeletedAt != nil
}

// Summary is the lightweight listing shape for a record.
type Summary struct {
	ID        string     `json:"id"`
	Type      SourceType `json:"type"`
	Platform  *string    `json:"platform,omitempty"`
	Title     string     `json:"title"`
	URL       string     `json:"url,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
	Deleted   bool       `json:"deleted,omitempty"`
}
