package aipx

import (
	"fmt"
	"time"
)

// ItemType classifies an Item.
type ItemType string

const (
	ItemTypeRoot   ItemType = "root"
	ItemTypeFolder ItemType = "folder"
	ItemTypeFile   ItemType = "file"
	ItemTypeImage  ItemType = "image"
	ItemTypeAudio  ItemType = "audio"
	ItemTypeVideo  ItemType = "video"
	ItemTypePDF    ItemType = "pdf"
)

// IsMedia reports whether items of this type carry technical metadata
// (dimensions or duration) in their characterization output.
func (t ItemType) IsMedia() bool {
	return t == ItemTypeImage || t == ItemTypeVideo || t == ItemTypeAudio
}

// TextType classifies a TextItem.
type TextType string

const (
	TextTypeTranscription TextType = "transcription"
	TextTypeTranslation   TextType = "translation"
)

// ParseTextType converts a configuration value into a TextType.
func ParseTextType(s string) (TextType, error) {
	switch TextType(s) {
	case TextTypeTranscription, TextTypeTranslation:
		return TextType(s), nil
	default:
		return "", fmt.Errorf("unknown text type %q (want transcription or translation): %w", s, ErrInvalidConfig)
	}
}

// FileRef points at one binary of an Item.
// URI is nil when no such binary exists in the package.
type FileRef struct {
	URI  *string `json:"uri"`
	PUID *string `json:"puid"`
}

// Fixity is one recorded message digest of an original binary.
type Fixity struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// Item is the externally visible output unit of a conversion.
//
// ParentIDs lists the full ancestor chain nearest parent first; its last
// element is the collection root. The root Item has no parent.
type Item struct {
	ID           string     `json:"id"`
	ParentID     *string    `json:"parent_id"`
	ParentIDs    []string   `json:"parent_ids"`
	CollectionID string     `json:"collection_id"`
	Type         ItemType   `json:"type"`
	Label        string     `json:"label"`
	Size         *int64     `json:"size,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	Width        *int       `json:"width,omitempty"`
	Height       *int       `json:"height,omitempty"`
	Resolution   *int       `json:"resolution,omitempty"`
	Duration     *float64   `json:"duration,omitempty"`
	Order        *int       `json:"order,omitempty"`
	Original     FileRef    `json:"original"`
	Access       FileRef    `json:"access"`
	Fixity       []Fixity   `json:"fixity,omitempty"`
}

// TextItem is a text layer (transcription or translation) of a content Item.
type TextItem struct {
	ID           string   `json:"id"`
	ItemID       string   `json:"item_id"`
	CollectionID string   `json:"collection_id"`
	Type         TextType `json:"type"`
	Language     *string  `json:"language"`
	Encoding     *string  `json:"encoding"`
	URI          string   `json:"uri"`
}

// Result is the complete conversion of one package.
type Result struct {
	Root      Item       `json:"root"`
	Items     []Item     `json:"items"`
	TextItems []TextItem `json:"text_items"`
}

// CountByType tallies the child items of the result per type.
func (r Result) CountByType() map[ItemType]int {
	counts := make(map[ItemType]int)
	for _, item := range r.Items {
		counts[item.Type]++
	}
	return counts
}

// Ptr returns a pointer to v. Used for the optional fields of Item and TextItem.
func Ptr[T any](v T) *T {
	return &v
}
