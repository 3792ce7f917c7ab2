// File: internal/service/password.go
package service

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost 是預設的 bcrypt 工作因子
const DefaultBcryptCost = 12

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// PasswordHasher 抽象密碼雜湊實作，之後可換成 argon2
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type BcryptHasher struct{ Cost int }

// Hash 接收明文密碼，回傳 bcrypt 哈希字串；每次呼叫產生不同 salt
func (b BcryptHasher) Hash(password string) (string, error) {
	cost := b.Cost
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify 比對明文密碼與 bcrypt 哈希；不符或格式錯誤都回傳 false，不會丟錯誤
func (b BcryptHasher) Verify(hash, password string) bool {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
