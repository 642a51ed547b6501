// Package toolbar is the registry of editor toolbar tools. The set of tools is
// closed: configuration names tools by ToolID and is checked once at startup.
package toolbar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned by Resolve for an id that names no tool.
var ErrUnknownTool = errors.New("unknown toolbar tool")

// ToolID identifies a toolbar tool. The string form is what appears in config.
type ToolID string

const (
	Bold           ToolID = "bold"
	Italic         ToolID = "italic"
	Underline      ToolID = "underline"
	Strikethrough  ToolID = "strikethrough"
	Code           ToolID = "code"
	FormatClear    ToolID = "formatClear"
	AlignCenter    ToolID = "alignCenter"
	AlignRight     ToolID = "alignRight"
	AlignLeft      ToolID = "alignLeft"
	AlignJustify   ToolID = "alignJustify"
	Subscript      ToolID = "subscript"
	Superscript    ToolID = "superscript"
	FontSize       ToolID = "fontSize"
	FontFamily     ToolID = "fontFamily"
	HorizontalRule ToolID = "horizontalRule"
	CodeBlock      ToolID = "codeblock"
	Blockquote     ToolID = "blockquote"
	Headings       ToolID = "headings"
	LeftToRight    ToolID = "ltr"
	RightToLeft    ToolID = "rtl"
	NumberedList   ToolID = "numberedList"
	BulletList     ToolID = "bulletList"
	TextColor      ToolID = "textColor"
	Highlight      ToolID = "highlight"
	Link           ToolID = "link"
	Image          ToolID = "image"
	Attachment     ToolID = "attachment"
	Table          ToolID = "table"
)

// Group is the family a tool belongs to.
type Group string

const (
	GroupInline    Group = "inline"
	GroupFont      Group = "font"
	GroupAlignment Group = "alignment"
	GroupBlock     Group = "block"
	GroupHeadings  Group = "headings"
	GroupLists     Group = "lists"
	GroupDirection Group = "direction"
	GroupColors    Group = "colors"
)

// Tool is one toolbar button.
type Tool struct {
	ID    ToolID
	Title string
	Group Group
}

func (t Tool) String() string { return string(t.ID) }

// order is the declaration order used by All and Default.
var order = []ToolID{
	Bold, Italic, Underline, Strikethrough, Code, FormatClear,
	AlignCenter, AlignRight, AlignLeft, AlignJustify,
	Subscript, Superscript, FontSize, FontFamily,
	HorizontalRule, CodeBlock, Blockquote, Headings,
	LeftToRight, RightToLeft, NumberedList, BulletList,
	TextColor, Highlight, Link, Image, Attachment, Table,
}

var tools = map[ToolID]Tool{
	Bold:           {Bold, "Bold", GroupInline},
	Italic:         {Italic, "Italic", GroupInline},
	Underline:      {Underline, "Underline", GroupInline},
	Strikethrough:  {Strikethrough, "Strikethrough", GroupInline},
	Code:           {Code, "Code", GroupInline},
	FormatClear:    {FormatClear, "Clear all formatting", GroupInline},
	AlignCenter:    {AlignCenter, "Align center", GroupAlignment},
	AlignRight:     {AlignRight, "Align right", GroupAlignment},
	AlignLeft:      {AlignLeft, "Align left", GroupAlignment},
	AlignJustify:   {AlignJustify, "Justify", GroupAlignment},
	Subscript:      {Subscript, "Subscript", GroupInline},
	Superscript:    {Superscript, "Superscript", GroupInline},
	FontSize:       {FontSize, "Font size", GroupFont},
	FontFamily:     {FontFamily, "Font family", GroupFont},
	HorizontalRule: {HorizontalRule, "Horizontal rule", GroupBlock},
	CodeBlock:      {CodeBlock, "Code block", GroupBlock},
	Blockquote:     {Blockquote, "Quote", GroupBlock},
	Headings:       {Headings, "Headings", GroupHeadings},
	LeftToRight:    {LeftToRight, "Left to right", GroupDirection},
	RightToLeft:    {RightToLeft, "Right to left", GroupDirection},
	NumberedList:   {NumberedList, "Numbered list", GroupLists},
	BulletList:     {BulletList, "Bullet list", GroupLists},
	TextColor:      {TextColor, "Text color", GroupColors},
	Highlight:      {Highlight, "Highlight color", GroupColors},
	Link:           {Link, "Link", GroupInline},
	Image:          {Image, "Image", GroupBlock},
	Attachment:     {Attachment, "Attachment", GroupInline},
	Table:          {Table, "Table", GroupBlock},
}

// All returns every tool id in declaration order.
func All() []ToolID {
	return append([]ToolID(nil), order...)
}

// Lookup returns the tool for id.
func Lookup(id ToolID) (Tool, bool) {
	t, ok := tools[id]
	return t, ok
}

// Default is the toolbar used when the config does not list one.
func Default() []string {
	ids := make([]string, len(order))
	for i, id := range order {
		ids[i] = string(id)
	}
	return ids
}

// Resolve maps configured ids to tools, keeping their order. Every unknown
// id is reported in one error wrapping ErrUnknownTool. A repeated id is also
// an error. An empty list resolves to the default toolbar.
func Resolve(ids []string) ([]Tool, error) {
	if len(ids) == 0 {
		ids = Default()
	}

	var unknown []string
	seen := make(map[ToolID]bool, len(ids))
	resolved := make([]Tool, 0, len(ids))
	for _, raw := range ids {
		id := ToolID(strings.TrimSpace(raw))
		t, ok := tools[id]
		if !ok {
			unknown = append(unknown, fmt.Sprintf("%q", raw))
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("toolbar lists %q more than once", id)
		}
		seen[id] = true
		resolved = append(resolved, t)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, strings.Join(unknown, ", "))
	}
	return resolved, nil
}

// IDs returns the ids of tools, for display.
func IDs(ts []Tool) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t.ID)
	}
	return out
}
