// Package profiles provides the default hooks of custom profiles: label
// predicates built from path patterns and enrichment read from a custom
// structMap whose divisions group the files of one page.
package profiles

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// RelativePath joins the ancestor labels (nearest first) and the label into
// a slash separated path, outermost directory first.
func RelativePath(label string, ancestors []string) string {
	parts := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		parts = append(parts, ancestors[i])
	}
	parts = append(parts, label)
	return strings.Join(parts, "/")
}

// MatchAny returns a predicate accepting a leaf when any pattern matches its
// relative path. No patterns yields nil, which walkers treat as "accept all".
func MatchAny(patterns ...*regexp.Regexp) aipx.LabelPredicate {
	if len(patterns) == 0 {
		return nil
	}
	return func(label string, ancestors []string) bool {
		p := RelativePath(label, ancestors)
		for _, re := range patterns {
			if re.MatchString(p) {
				return true
			}
		}
		return false
	}
}

// TextRule routes the leaves whose relative path matches Pattern to the text
// path with the given type and language.
type TextRule struct {
	Pattern  *regexp.Regexp
	Type     aipx.TextType
	Language string
}

// TextRules builds the text predicate and classifier of a rule list. The
// first matching rule wins.
func TextRules(rules []TextRule) (aipx.LabelPredicate, aipx.TextClassifier) {
	if len(rules) == 0 {
		return nil, nil
	}
	match := func(label string, ancestors []string) (TextRule, bool) {
		p := RelativePath(label, ancestors)
		for _, r := range rules {
			if r.Pattern.MatchString(p) {
				return r, true
			}
		}
		return TextRule{}, false
	}
	isText := func(label string, ancestors []string) bool {
		_, ok := match(label, ancestors)
		return ok
	}
	classify := func(label string, ancestors []string) (aipx.TextType, string) {
		r, ok := match(label, ancestors)
		if !ok || r.Type == "" {
			return aipx.TextTypeTranscription, r.Language
		}
		return r.Type, r.Language
	}
	return isText, classify
}

// locate finds the division pointing at fileID and its 1-based position
// among its siblings.
func locate(sm *aipx.StructMap, fileID string) (*aipx.StructDiv, int) {
	var found *aipx.StructDiv
	position := 0
	sm.Walk(func(div, parent *aipx.StructDiv) bool {
		for _, id := range div.FileIDs {
			if id != fileID {
				continue
			}
			found = div
			siblings := sm.Divs
			if parent != nil {
				siblings = parent.Children
			}
			for i := range siblings {
				if &siblings[i] == div {
					position = i + 1
				}
			}
			return false
		}
		return true
	})
	return found, position
}

// OrderFromStructMap attaches the ORDER of the division pointing at fileID,
// or its position among its siblings when ORDER is absent or not a number.
func OrderFromStructMap(sm *aipx.StructMap, fileID string) aipx.FileEnrichment {
	div, position := locate(sm, fileID)
	if div == nil {
		return aipx.FileEnrichment{}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(div.Order)); err == nil {
		return aipx.FileEnrichment{Order: aipx.Ptr(n)}
	}
	return aipx.FileEnrichment{Order: aipx.Ptr(position)}
}

// SiblingFileID returns the first other FILEID of the division pointing at
// fileID. A text layer and the page it transcribes share one division.
func SiblingFileID(sm *aipx.StructMap, fileID string) (string, bool) {
	div, _ := locate(sm, fileID)
	if div == nil {
		return "", false
	}
	for _, id := range div.FileIDs {
		if id != "" && id != fileID {
			return id, true
		}
	}
	return "", false
}

// Custom assembles a custom profile for the named structMap with the
// default enrichment hooks.
func Custom(structMap string, files []*regexp.Regexp, texts []TextRule) aipx.CustomProfile {
	isText, classify := TextRules(texts)
	return aipx.CustomProfile{
		StructMap:    structMap,
		IsFile:       MatchAny(files...),
		IsText:       isText,
		ClassifyText: classify,
		EnrichFile:   OrderFromStructMap,
		EnrichText:   SiblingFileID,
	}
}
