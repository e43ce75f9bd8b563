package model

import (
	"regexp"
	"strings"
)

// numberingPrefix matches the "3. \n" marker some verses start with.
// \d is ASCII only.
var numberingPrefix = regexp.MustCompile(`^\d\. \n`)

// StripNumbering removes a leading "<digit>. \n" marker and any trailing
// newlines from a verse body:
//
//	"3. \nText\n\n" -> "Text"
//	"Text\n"        -> "Text"
func StripNumbering(text string) string {
	if loc := numberingPrefix.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	return strings.TrimRight(text, "\n")
}

// Reorder lays out the stanzas of a song in slide order.
//
// The chorus (if any) follows every body stanza, the last one included:
//
//	["A", "B"], "X" -> ["A", "X", "B", "X"]
//	["A", "B"], ""  -> ["A", "B"]
//
// maxLines is the largest newline count among the chorus and the body
// stanzas, plus one. It is always >= 1.
func Reorder(stanzas []string, chorus string) (slides []string, maxLines int) {
	hasChorus := chorus != ""
	if hasChorus {
		maxLines = strings.Count(chorus, "\n")
		slides = make([]string, 0, 2*len(stanzas))
	} else {
		slides = make([]string, 0, len(stanzas))
	}

	for _, stanza := range stanzas {
		slides = append(slides, stanza)
		if lines := strings.Count(stanza, "\n"); lines > maxLines {
			maxLines = lines
		}
		if hasChorus {
			slides = append(slides, chorus)
		}
	}

	maxLines++
	return slides, maxLines
}
