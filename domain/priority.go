package domain

type Priority string

const (
	PrioriteBasse   Priority = "basse"
	PrioriteNormale Priority = "normale"
	PrioriteHaute   Priority = "haute"
	PrioriteUrgente Priority = "urgente"
)

func (p Priority) Valid() bool {
	switch p {
	case PrioriteBasse, PrioriteNormale, PrioriteHaute, PrioriteUrgente:
		return true
	}
	return false
}
