package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrData            = errors.New("reference data error")
	ErrExtraction      = errors.New("extraction failed")
	ErrEmbedding       = errors.New("embedding failed")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrInternal        = errors.New("internal error")
)

// Reference dataset column names.
const (
	ColumnJobTitle        = "job_title"
	ColumnTechnicalSkills = "technical_skills"
	ColumnSoftSkills      = "soft_skills"
)

// RequiredColumns lists the columns a reference table must expose.
var RequiredColumns = []string{ColumnJobTitle, ColumnTechnicalSkills, ColumnSoftSkills}

// Skill categories
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
)

// ReferenceRow is one role→skills row of the reference dataset.
// Skills are raw comma-separated strings exactly as stored in the source.
type ReferenceRow struct {
	RoleTitle       string
	TechnicalSkills string
	SoftSkills      string
}

// ReferenceTable is the tabular reference dataset together with the column
// names the source exposed, so that missing columns can be reported.
type ReferenceTable struct {
	Columns []string
	Rows    []ReferenceRow
}

// RoleSkills is the union of the skills of every reference row whose title
// contains a role. An empty value means the role was not found.
type RoleSkills struct {
	Technical     []string
	Soft          []string
	ReferenceText string
}

// Found reports whether at least one reference row matched the role.
func (r RoleSkills) Found() bool { return r.ReferenceText != "" }

// ScoredSkill is a skill with its importance score in [0,1].
type ScoredSkill struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// RankedSkills holds the technical and soft skills of a description ordered
// by score descending.
type RankedSkills struct {
	Technical []ScoredSkill
	Soft      []ScoredSkill
}

// MatchResult is the outcome of screening a document against a role.
// Invariants: MatchScore in [0,100] for non-degenerate text; Missing* are
// computed against the role skills, never the document skills.
type MatchResult struct {
	MatchScore     float64
	TechFound      []string
	SoftFound      []string
	MissingTech    []string
	MissingSoft    []string
	Recommendation string
}

// Document is plain text extracted from an uploaded file. Pages that failed
// extraction contribute no text and are listed in PageErrors.
type Document struct {
	Text       string
	Pages      int
	PageErrors []error
}

// Ports

//go:generate mockery --name=ReferenceSource --with-expecter --filename=reference_source_mock.go
//go:generate mockery --name=Embedder --with-expecter --filename=embedder_mock.go
//go:generate mockery --name=TextExtractor --with-expecter --filename=text_extractor_mock.go

// ReferenceSource loads the reference dataset (CSV file, database table, ...).
type ReferenceSource interface {
	Load(ctx Context) (ReferenceTable, error)
}

// Embedder maps texts to vectors in a shared basis. Implementations that fit
// their basis on the input (sparse) must embed all texts in one call.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// TextExtractor turns an uploaded file into plain text.
// Implementations may call external services (e.g., Tika) or use local libraries.
type TextExtractor interface {
	Extract(ctx Context, fileName string, data []byte) (Document, error)
}

// Context is an alias to context.Context so domain signatures stay short.
type Context = context.Context
