package services

import (
	"math/rand"
	"strconv"
)

// CodeGenerator — 4-значный код без ведущих нулей (диапазон 1000–9999).
type CodeGenerator struct{}

func NewCodeGenerator() *CodeGenerator { return &CodeGenerator{} }

func (g *CodeGenerator) Generate() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
