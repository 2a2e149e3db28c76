package scheduler

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
)

func TestGenerateMeetingLink_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^https://meet\.google\.com/[A-Za-z0-9]{16}$`)

	for i := 0; i < 100; i++ {
		link := GenerateMeetingLink(constants.DefaultMeetingBaseURL)
		assert.True(t, pattern.MatchString(link), "链接格式不符: %s", link)
	}
}

func TestGenerateMeetingLink_CustomBaseURL(t *testing.T) {
	link := GenerateMeetingLink("https://meet.example.com/")
	assert.True(t, strings.HasPrefix(link, "https://meet.example.com/"))
	assert.Len(t, strings.TrimPrefix(link, "https://meet.example.com/"), constants.MeetingLinkLength)
}

func TestGenerateMeetingLink_Uniqueness(t *testing.T) {
	const samples = 10000
	seen := make(map[string]bool, samples)
	for i := 0; i < samples; i++ {
		link := GenerateMeetingLink(constants.DefaultMeetingBaseURL)
		assert.False(t, seen[link], "会议链接重复: %s", link)
		seen[link] = true
	}
}
