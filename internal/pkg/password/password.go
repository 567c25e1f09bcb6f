// Package password concentra o hashing bcrypt das senhas.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost é o custo bcrypt usado para novos hashes.
var Cost = bcrypt.DefaultCost

// Hash gera o hash bcrypt da senha em texto puro.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches compara a senha em texto puro com o hash salvo.
func Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
