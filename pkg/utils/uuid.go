package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 12)
}

// MustGenerateID gera um id ou aborta; usado onde a falha do gerador de
// entropia já seria fatal de qualquer forma.
func MustGenerateID() string {
	id, err := gonanoid.Generate(characters, 12)
	if err != nil {
		panic(err)
	}
	return id
}
