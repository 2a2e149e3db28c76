package scheduler

import (
	"crypto/rand"
	"math/big"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
)

const meetingLinkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateMeetingLink 生成 baseURL + 16位随机字母数字 的会议链接。
// 随机源用crypto/rand，均匀取样；目的只是避免碰撞，不承诺防猜测性。
func GenerateMeetingLink(baseURL string) string {
	if baseURL == "" {
		baseURL = constants.DefaultMeetingBaseURL
	}

	max := big.NewInt(int64(len(meetingLinkAlphabet)))
	suffix := make([]byte, constants.MeetingLinkLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 读取失败意味着系统熵源不可用，无法继续
			panic("scheduler: crypto/rand unavailable: " + err.Error())
		}
		suffix[i] = meetingLinkAlphabet[n.Int64()]
	}
	return baseURL + string(suffix)
}
