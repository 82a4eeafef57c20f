package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	submissionIDPrefix  = "SUB"
	submissionIDRandLen = 6

	base36Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength  = 48
)

// GenerateSubmissionID produces a human-readable submission identifier of
// the form SUB-<TIME36>-<RAND>, where TIME36 is the current unix millisecond
// timestamp in uppercase base 36 and RAND is a random 6-character base-36
// suffix. IDs sort roughly by creation time; the suffix is wide enough that
// bursts within one millisecond stay unique.
func GenerateSubmissionID() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%s", submissionIDPrefix, ts, randomString(base36Charset, submissionIDRandLen))
}

// GenerateToken returns a random opaque session token.
func GenerateToken() string {
	return randomString(tokenCharset, tokenLength)
}

func randomString(charset string, length int) string {
	result := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range result {
		num, _ := rand.Int(rand.Reader, max)
		result[i] = charset[num.Int64()]
	}
	return string(result)
}
