// Package speech bridges finalized assistant turns to the client's
// speech-synthesis capability and relays dictated transcripts back as user
// turns. The browser owns the actual speech engines; this side holds the
// mute/cancel state machine and the voice preference policy.
package speech

import "strings"

// Voice describes one synthesis voice reported by the client.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// SelectBestVoice picks the preferred voice from the reported list:
// Google en voice, then anything "Premium", then "Natural"/"Enhanced",
// then plain en-US, then the first English voice. false means no
// preference and the client should use its default.
func SelectBestVoice(voices []Voice) (Voice, bool) {
	var english []Voice
	for _, v := range voices {
		if strings.HasPrefix(v.Lang, "en") {
			english = append(english, v)
		}
	}
	if len(english) == 0 {
		return Voice{}, false
	}

	for _, v := range english {
		if strings.Contains(v.Name, "Google") {
			return v, true
		}
	}
	for _, v := range english {
		if strings.Contains(v.Name, "Premium") {
			return v, true
		}
	}
	for _, v := range english {
		if strings.Contains(v.Name, "Natural") || strings.Contains(v.Name, "Enhanced") {
			return v, true
		}
	}
	for _, v := range english {
		if v.Lang == "en-US" {
			return v, true
		}
	}
	return english[0], true
}
