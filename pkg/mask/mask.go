// Package mask formatea CPF/CNPJ, CEP y telefones mientras el usuario escribe.
// Son ayudas de presentación: el validador del servidor nunca confía en el formato
// y vuelve a extraer los dígitos por su cuenta.
package mask

import "strings"

// Digits devuelve solo los dígitos ASCII de s, en orden.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TaxID formatea un CPF (hasta 11 dígitos) como ###.###.###-## y un CNPJ
// (más de 11) como ##.###.###/####-##. No rechaza longitudes: solo reformatea.
func TaxID(s string) string {
	d := Digits(s)
	if len(d) <= 11 {
		return apply(d, "###.###.###-##")
	}
	return apply(d, "##.###.###/####-##")
}

// CEP formatea un código postal como #####-###.
func CEP(s string) string {
	return apply(Digits(s), "#####-###")
}

// Phone formatea fijo (hasta 10 dígitos) como (##) ####-#### y celular como (##) #####-####.
func Phone(s string) string {
	d := Digits(s)
	if len(d) <= 10 {
		return apply(d, "(##) ####-####")
	}
	return apply(d, "(##) #####-####")
}

// apply rellena el patrón con los dígitos disponibles. Los separadores solo se
// escriben cuando queda al menos un dígito por delante, así una entrada parcial
// no termina en un separador colgado. Los dígitos que sobran se conservan al final.
func apply(digits, pattern string) string {
	if digits == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(pattern))
	i := 0
	for _, p := range pattern {
		if i >= len(digits) {
			break
		}
		if p == '#' {
			b.WriteByte(digits[i])
			i++
			continue
		}
		b.WriteRune(p)
	}
	b.WriteString(digits[i:])
	return b.String()
}
