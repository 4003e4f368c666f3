package handlers

import "project-management-app/backend/query"

// List parameters recognized per resource.
var (
	userSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"role":     query.String,
			"service":  query.ObjectID,
			"poste":    query.ObjectID,
			"position": query.ObjectID,
			"isActive": query.Bool,
		},
		Search:      []string{"nom", "prenom", "email"},
		DefaultSort: "nom",
	}

	ServiceSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"responsable": query.ObjectID,
			"isActive":    query.Bool,
		},
		Search:      []string{"nom", "description"},
		DefaultSort: "nom",
	}

	PosteSpec = query.Spec{
		Fields:      map[string]query.FieldKind{"service": query.ObjectID},
		Search:      []string{"titre", "description"},
		DefaultSort: "titre",
	}

	PositionSpec = query.Spec{
		Fields:      map[string]query.FieldKind{"niveau": query.Int},
		Search:      []string{"nom", "description"},
		DefaultSort: "niveau",
	}

	TypeTacheSpec = query.Spec{
		Search:      []string{"nom", "description"},
		DefaultSort: "nom",
	}

	projectSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"statut":      query.String,
			"priorite":    query.String,
			"responsable": query.ObjectID,
			"service":     query.ObjectID,
		},
		Ranges:      []query.Range{{Field: "dateDebut", From: "dateDebut", To: "dateFin"}},
		Search:      []string{"titre", "description"},
		DefaultSort: "-createdAt",
	}

	taskSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"statut":    query.String,
			"priorite":  query.String,
			"projet":    query.ObjectID,
			"assigneA":  query.ObjectID,
			"creePar":   query.ObjectID,
			"typeTache": query.ObjectID,
		},
		Ranges:      []query.Range{{Field: "dateEcheance", From: "dateDebut", To: "dateFin"}},
		Search:      []string{"titre", "description"},
		DefaultSort: "-createdAt",
	}

	eventSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"type":         query.String,
			"organisateur": query.ObjectID,
			"projet":       query.ObjectID,
		},
		Ranges:      []query.Range{{Field: "dateDebut", From: "dateDebut", To: "dateFin"}},
		Search:      []string{"titre", "description", "lieu"},
		DefaultSort: "dateDebut",
	}

	discussionSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"projet":   query.ObjectID,
			"createur": query.ObjectID,
		},
		Search:      []string{"titre", "description"},
		DefaultSort: "-updatedAt",
	}

	documentSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"statut":    query.String,
			"projet":    query.ObjectID,
			"tache":     query.ObjectID,
			"soumisPar": query.ObjectID,
		},
		Search:      []string{"titre", "description"},
		DefaultSort: "-createdAt",
	}

	notificationSpec = query.Spec{
		Fields: map[string]query.FieldKind{
			"type":     query.String,
			"statut":   query.String,
			"priorite": query.String,
			"isActive": query.Bool,
		},
		Ranges:      []query.Range{{Field: "createdAt", From: "dateDebut", To: "dateFin"}},
		Search:      []string{"titre", "message"},
		DefaultSort: "-createdAt",
	}
)
