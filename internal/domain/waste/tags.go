package waste

import "strings"

// Etiquetas automáticas de clasificación de desperdicios.
const (
	TagExpirySpoilage  = "expiry_spoilage"
	TagCookingError    = "cooking_error"
	TagContamination   = "contamination"
	TagOverOrdering    = "over_ordering"
	TagDamage          = "damage"
	TagCustomerRelated = "customer_related"
)

// taxonomy mapea cada etiqueta a sus palabras clave (match por substring,
// sin distinguir mayúsculas). El orden de la lista fija el orden de salida.
var taxonomy = []struct {
	tag      string
	keywords []string
}{
	{TagExpirySpoilage, []string{"expir", "spoil", "caduc", "vencid", "moho", "mold", "podrid", "rancid"}},
	{TagCookingError, []string{"burn", "overcook", "undercook", "quemad", "cocci", "cocina", "mal preparad"}},
	{TagContamination, []string{"contamin", "cross-contact", "alérgeno", "allergen"}},
	{TagOverOrdering, []string{"over-order", "overorder", "sobrepedido", "exceso", "surplus", "sobrante", "overstock"}},
	{TagDamage, []string{"damag", "broke", "dañad", "roto", "rotura", "caída", "dropped", "aplastad"}},
	{TagCustomerRelated, []string{"customer", "cliente", "devol", "return", "queja", "complaint", "rechaz"}},
}

// DeriveTags clasifica el motivo contra la taxonomía fija y concatena, en
// este orden: etiquetas de taxonomía, etiquetas del usuario y el tipo de
// desperdicio. Determinista, puro y sin duplicados (gana la primera aparición).
func DeriveTags(reason string, userTags []string, kind string) []string {
	lower := strings.ToLower(reason)

	tags := make([]string, 0, len(userTags)+3)
	seen := make(map[string]bool)
	add := func(t string) {
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		tags = append(tags, t)
	}

	for _, entry := range taxonomy {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				add(entry.tag)
				break
			}
		}
	}
	for _, t := range userTags {
		add(strings.TrimSpace(t))
	}
	add(kind)
	return tags
}
