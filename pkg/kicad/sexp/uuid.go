package sexp

import "github.com/google/uuid"

// idNamespace is the fixed namespace for every element identity the writers
// emit. Seeded v5 UUIDs keep output byte-identical across runs.
var idNamespace = uuid.MustParse("8f41e6b3-71a9-4f34-9c5a-1df2c8b0a6d4")

// SeededUUID derives a stable UUID from a seed string.
func SeededUUID(seed string) string {
	return uuid.NewSHA1(idNamespace, []byte(seed)).String()
}
