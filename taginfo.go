package papyri

// ContentKindTag discriminates the five content-model normalization rules
// a tag's children are subject to (spec.md §4.I), ported from the original
// implementation's utils/taginfo.rs.
type ContentKindTag int

const (
	RequireInline ContentKindTag = iota
	RequireInlineNoLineBreaks
	RequireBlock
	AllowBlock
	RequireOneOf
)

// ContentRule is the content-model rule for one tag: Kind selects the
// variant, Wrap names the tag to wrap loose content in (RequireBlock/
// AllowBlock), and OneOf lists the only permitted child tag names
// (RequireOneOf).
type ContentRule struct {
	Kind  ContentKindTag
	Wrap  NameID
	OneOf []NameID
}

// voidElements are self-closing per the HTML void-element list
// (https://developer.mozilla.org/en-US/docs/Glossary/Void_element).
var voidElements = map[NameID]bool{
	NameArea: true, NameBase: true, NameBr: true, NameCol: true,
	NameCommand: true, NameEmbed: true, NameHr: true, NameImg: true,
	NameInput: true, NameKeygen: true, NameLink: true, NameMenuitem: true,
	NameMeta: true, NameParam: true, NameSource: true, NameTrack: true,
	NameWbr: true,
}

// IsSelfClosing reports whether name is a void element; spec.md's
// self-closing predicate is `rangle == "/>" || IsSelfClosing(name)`, so
// the parser still honors an explicit "/>" on any tag.
func IsSelfClosing(name NameID) bool {
	return voidElements[name]
}

// blockElements are block-level per MDN, plus canvas/menu/video as extras
// the original implementation also treats as block.
var blockElements = map[NameID]bool{
	NameAddress: true, NameArticle: true, NameAside: true, NameBlockquote: true,
	NameCanvas: true, NameDd: true, NameDetails: true, NameDiv: true,
	NameDl: true, NameDt: true, NameFieldset: true, NameFigcaption: true,
	NameFigure: true, NameFooter: true, NameForm: true, NameH1: true,
	NameH2: true, NameH3: true, NameH4: true, NameH5: true, NameH6: true,
	NameHeader: true, NameHgroup: true, NameHr: true, NameImg: true,
	NameLi: true, NameMain: true, NameMenu: true, NameNav: true, NameOl: true,
	NameP: true, NamePre: true, NameSection: true, NameTable: true,
	NameUl: true, NameVideo: true,
}

// IsBlock reports whether name is a block-level element.
func IsBlock(name NameID) bool {
	return blockElements[name]
}

// contentRules maps every recognized tag name to its content model. A
// name absent from this map defaults to RequireInline, matching the
// original's wildcard arm.
var contentRules = map[NameID]ContentRule{
	NameArticle: {Kind: RequireBlock, Wrap: NameP},
	NameAside:   {Kind: RequireBlock, Wrap: NameP},
	NameBlockquote: {Kind: RequireBlock, Wrap: NameP},
	NameFooter:  {Kind: RequireBlock, Wrap: NameP},
	NameHeader:  {Kind: RequireBlock, Wrap: NameP},
	NameMain:    {Kind: RequireBlock, Wrap: NameP},
	NameNav:     {Kind: RequireBlock, Wrap: NameP},
	NameSection: {Kind: RequireBlock, Wrap: NameP},

	NameAddress:    {Kind: AllowBlock, Wrap: NameP},
	NameDetails:    {Kind: AllowBlock, Wrap: NameP},
	NameDiv:        {Kind: AllowBlock, Wrap: NameP},
	NameFieldset:   {Kind: AllowBlock, Wrap: NameP},
	NameFigcaption: {Kind: AllowBlock, Wrap: NameP},
	NameFigure:     {Kind: AllowBlock, Wrap: NameP},
	NameForm:       {Kind: AllowBlock, Wrap: NameP},

	NameDl: {Kind: RequireOneOf, OneOf: []NameID{NameDd, NameDt}},
	NameHgroup: {Kind: RequireOneOf, OneOf: []NameID{
		NameP, NameH1, NameH2, NameH3, NameH4, NameH5, NameH6,
	}},
	NameMenu: {Kind: RequireOneOf, OneOf: []NameID{NameLi}},
	NameOl:   {Kind: RequireOneOf, OneOf: []NameID{NameLi}},
	NameUl:   {Kind: RequireOneOf, OneOf: []NameID{NameLi}},
	NameTable: {Kind: RequireOneOf, OneOf: []NameID{
		NameTr, NameTbody, NameTfoot, NameThead, NameCaption, NameColgroup,
	}},
	NameTbody: {Kind: RequireOneOf, OneOf: []NameID{NameTr}},
	NameTfoot: {Kind: RequireOneOf, OneOf: []NameID{NameTr}},
	NameThead: {Kind: RequireOneOf, OneOf: []NameID{NameTr}},
	NameTr:    {Kind: RequireOneOf, OneOf: []NameID{NameTd, NameTh}},

	NameH1: {Kind: RequireInlineNoLineBreaks},
	NameH2: {Kind: RequireInlineNoLineBreaks},
	NameH3: {Kind: RequireInlineNoLineBreaks},
	NameH4: {Kind: RequireInlineNoLineBreaks},
	NameH5: {Kind: RequireInlineNoLineBreaks},
	NameH6: {Kind: RequireInlineNoLineBreaks},
	NameHr: {Kind: RequireInlineNoLineBreaks},
	NameP:  {Kind: RequireInlineNoLineBreaks},
}

// ContentKindFor returns the content-model rule for name, defaulting to
// RequireInline for any tag not named in contentRules (this covers every
// genuinely inline element, plus unrecognized/custom tag names).
func ContentKindFor(name NameID) ContentRule {
	if rule, ok := contentRules[name]; ok {
		return rule
	}
	return ContentRule{Kind: RequireInline}
}
