package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength 邮箱验证码位数
const CodeLength = 6

// Generate 生成6位数字验证码
func Generate() string {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand 不可用时无法安全生成验证码
		panic(fmt.Sprintf("otp: rand failed: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}
