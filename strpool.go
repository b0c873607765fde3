package papyri

import "sync"

// NameID is an opaque handle for an interned string. Equality is by value;
// a NameID minted by a StringPool remains valid for the lifetime of that
// pool (the pool is append-only).
type NameID int

// wellKnown lists the fixed vocabulary that is always interned first, in
// declaration order, so its NameIDs are stable program constants. This
// mirrors the original Rust implementation's `str_ids` block
// (original_source/src/utils/const_strs.rs) — tag names, native function
// names, and parameter conventions that the evaluator and HTML model need
// to compare against without going through a map lookup by string.
var wellKnown = []string{
	"<anonymous>", "!DOCTYPE", "_0", "_1", "a", "add", "address", "area",
	"article", "aside", "base", "blockquote", "body", "br", "canvas",
	"caption", "class", "code", "code_block", "col", "colgroup", "command",
	"content", "dd", "details", "div", "dl", "dt", "embed", "export",
	"fieldset", "figcaption", "figure", "filter", "first_line_no", "footer",
	"form", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup",
	"hr", "href", "html", "implicit", "img", "import", "include", "input",
	"keygen", "language", "let", "li", "link", "list_files", "main", "map",
	"menu", "menuitem", "meta", "nav", "ol", "p", "param", "pre", "raise",
	"script", "section", "source", "span", "syntax_highlight", "table",
	"tbody", "td", "tfoot", "th", "thead", "title", "tr", "track", "ul",
	"video", "wbr", "write_file", "args",
}

// Well-known NameID constants, assigned by position in wellKnown above.
const (
	NameAnonymous NameID = iota
	NameDoctype
	Name_0
	Name_1
	NameA
	NameAdd
	NameAddress
	NameArea
	NameArticle
	NameAside
	NameBase
	NameBlockquote
	NameBody
	NameBr
	NameCanvas
	NameCaption
	NameClass
	NameCode
	NameCodeBlock
	NameCol
	NameColgroup
	NameCommand
	NameContent
	NameDd
	NameDetails
	NameDiv
	NameDl
	NameDt
	NameEmbed
	NameExport
	NameFieldset
	NameFigcaption
	NameFigure
	NameFilter
	NameFirstLineNo
	NameFooter
	NameForm
	NameH1
	NameH2
	NameH3
	NameH4
	NameH5
	NameH6
	NameHead
	NameHeader
	NameHgroup
	NameHr
	NameHref
	NameHTML
	NameImplicit
	NameImg
	NameImport
	NameInclude
	NameInput
	NameKeygen
	NameLanguage
	NameLet
	NameLi
	NameLink
	NameListFiles
	NameMain
	NameMap
	NameMenu
	NameMenuitem
	NameMeta
	NameNav
	NameOl
	NameP
	NameParam
	NamePre
	NameRaise
	NameScript
	NameSection
	NameSource
	NameSpan
	NameSyntaxHighlight
	NameTable
	NameTbody
	NameTd
	NameTfoot
	NameTh
	NameThead
	NameTitle
	NameTr
	NameTrack
	NameUl
	NameVideo
	NameWbr
	NameWriteFile
	NameArgs
)

// StringPool interns identifiers and tag names into stable NameIDs.
// It is append-only; lookups never invalidate a previously minted NameID.
type StringPool struct {
	mu     sync.Mutex
	byID   []string
	byName map[string]NameID
}

// NewStringPool creates a pool pre-seeded with the well-known vocabulary
// so that NameA..NameWriteFile above are guaranteed to match.
func NewStringPool() *StringPool {
	p := &StringPool{
		byID:   make([]string, 0, len(wellKnown)+64),
		byName: make(map[string]NameID, len(wellKnown)+64),
	}
	for _, s := range wellKnown {
		p.Intern(s)
	}
	return p
}

// Intern returns the NameID for s, minting a new one if s hasn't been seen
// by this pool before.
func (p *StringPool) Intern(s string) NameID {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.byName[s]; ok {
		return id
	}
	id := NameID(len(p.byID))
	p.byID = append(p.byID, s)
	p.byName[s] = id
	return id
}

// Get resolves a NameID back to its string. Panics if id was never minted
// by this pool — that's an internal compiler error, not a user-facing one.
func (p *StringPool) Get(id NameID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(id) < 0 || int(id) >= len(p.byID) {
		panic("papyri: NameID not minted by this pool")
	}
	return p.byID[id]
}

// Lookup returns the NameID for s without interning it, for cases (like
// matching a fixed keyword) that must not grow the pool on a miss.
func (p *StringPool) Lookup(s string) (NameID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.byName[s]
	return id, ok
}
