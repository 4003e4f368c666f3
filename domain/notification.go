package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTache       NotificationType = "tache"
	NotificationProjet      NotificationType = "projet"
	NotificationDocument    NotificationType = "document"
	NotificationCommentaire NotificationType = "commentaire"
	NotificationMention     NotificationType = "mention"
	NotificationDeadline    NotificationType = "deadline"
	NotificationValidation  NotificationType = "validation"
	NotificationSysteme     NotificationType = "systeme"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTache, NotificationProjet, NotificationDocument, NotificationCommentaire,
		NotificationMention, NotificationDeadline, NotificationValidation, NotificationSysteme:
		return true
	}
	return false
}

type NotificationStatus string

const (
	StatusNonLu   NotificationStatus = "non_lu"
	StatusLu      NotificationStatus = "lu"
	StatusArchive NotificationStatus = "archive"
)

func (s NotificationStatus) Valid() bool {
	return s == StatusNonLu || s == StatusLu || s == StatusArchive
}

type ActionType string

const (
	ActionAccepter ActionType = "accepter"
	ActionRefuser  ActionType = "refuser"
	ActionValider  ActionType = "valider"
	ActionRejeter  ActionType = "rejeter"
	ActionVoir     ActionType = "voir"
	ActionIgnorer  ActionType = "ignorer"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionAccepter, ActionRefuser, ActionValider, ActionRejeter, ActionVoir, ActionIgnorer:
		return true
	}
	return false
}

const (
	MaxNotificationTitle = 200

	// ArchiveRetention is how long an archived notification stays active
	// without modification.
	ArchiveRetention = 30 * 24 * time.Hour
)

type Action struct {
	Type           ActionType `bson:"type" json:"type"`
	Label          string     `bson:"label" json:"label"`
	Lien           string     `bson:"lien,omitempty" json:"lien,omitempty"`
	Completed      bool       `bson:"completed" json:"completed"`
	DateCompletion *time.Time `bson:"dateCompletion,omitempty" json:"dateCompletion,omitempty"`
}

type Notification struct {
	Model `bson:",inline"`

	Destinataire primitive.ObjectID     `bson:"destinataire" json:"destinataire"`
	Type         NotificationType       `bson:"type" json:"type"`
	Titre        string                 `bson:"titre" json:"titre"`
	Message      string                 `bson:"message" json:"message"`
	Priorite     Priority               `bson:"priorite" json:"priorite"`
	Reference    primitive.ObjectID     `bson:"reference" json:"reference"`
	Lien         string                 `bson:"lien,omitempty" json:"lien,omitempty"`
	Statut       NotificationStatus     `bson:"statut" json:"statut"`
	DateLecture  *time.Time             `bson:"dateLecture,omitempty" json:"dateLecture,omitempty"`
	Actions      []Action               `bson:"actions" json:"actions"`
	Metadata     map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsActive     bool                   `bson:"isActive" json:"isActive"`
}

type Notifications []*Notification

// NotificationParams carries the fields accepted when creating a notification.
type NotificationParams struct {
	Destinataire primitive.ObjectID
	Type         NotificationType
	Reference    primitive.ObjectID
	Titre        string
	Message      string
	Priorite     Priority
	Lien         string
	Metadata     map[string]interface{}
}

// NewNotification builds an unread, active notification and validates it.
func NewNotification(p NotificationParams) (*Notification, error) {
	n := &Notification{
		Destinataire: p.Destinataire,
		Type:         p.Type,
		Reference:    p.Reference,
		Titre:        p.Titre,
		Message:      p.Message,
		Priorite:     p.Priorite,
		Lien:         p.Lien,
		Metadata:     p.Metadata,
		Statut:       StatusNonLu,
		Actions:      []Action{},
		IsActive:     true,
	}
	if n.Priorite == "" {
		n.Priorite = PrioriteNormale
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewTaskNotification addresses a recipient about a task event such as an assignment.
func NewTaskNotification(recipient, taskID primitive.ObjectID, kind, message string) (*Notification, error) {
	return NewNotification(NotificationParams{
		Destinataire: recipient,
		Type:         NotificationTache,
		Reference:    taskID,
		Titre:        fmt.Sprintf("Notification de tâche - %s", kind),
		Message:      message,
		Priorite:     PrioriteNormale,
		Lien:         "/taches/" + taskID.Hex(),
	})
}

// NewProjectNotification addresses a recipient about a project event.
func NewProjectNotification(recipient, projectID primitive.ObjectID, kind, message string) (*Notification, error) {
	return NewNotification(NotificationParams{
		Destinataire: recipient,
		Type:         NotificationProjet,
		Reference:    projectID,
		Titre:        fmt.Sprintf("Notification de projet - %s", kind),
		Message:      message,
		Priorite:     PrioriteNormale,
		Lien:         "/projets/" + projectID.Hex(),
	})
}

// NewDeadlineNotification warns a recipient that a task is due.
func NewDeadlineNotification(recipient, taskID primitive.ObjectID, taskTitle string, due time.Time) (*Notification, error) {
	return NewNotification(NotificationParams{
		Destinataire: recipient,
		Type:         NotificationDeadline,
		Reference:    taskID,
		Titre:        fmt.Sprintf("Échéance proche - %s", taskTitle),
		Message:      fmt.Sprintf("La tâche \"%s\" arrive à échéance le %s", taskTitle, due.Format("02/01/2006")),
		Priorite:     PrioriteHaute,
		Lien:         "/taches/" + taskID.Hex(),
		Metadata:     map[string]interface{}{"dateEcheance": due},
	})
}

func (n *Notification) Validate() error {
	fields := map[string]string{}
	if n.Destinataire.IsZero() {
		fields["destinataire"] = "Le destinataire est requis"
	}
	if n.Type == "" {
		fields["type"] = "Le type est requis"
	} else if !n.Type.Valid() {
		fields["type"] = "Type de notification invalide"
	}
	if n.Titre == "" {
		fields["titre"] = "Le titre est requis"
	} else if utf8.RuneCountInString(n.Titre) > MaxNotificationTitle {
		fields["titre"] = "Le titre ne peut pas dépasser 200 caractères"
	}
	if n.Message == "" {
		fields["message"] = "Le message est requis"
	}
	if n.Reference.IsZero() {
		fields["reference"] = "La référence est requise"
	}
	if !n.Priorite.Valid() {
		fields["priorite"] = "Priorité invalide"
	}
	if n.Statut != "" && !n.Statut.Valid() {
		fields["statut"] = "Statut invalide"
	}
	for i, a := range n.Actions {
		if !a.Type.Valid() {
			fields[fmt.Sprintf("actions.%d.type", i)] = "Type d'action invalide"
		}
	}
	if len(fields) > 0 {
		return NewValidationError("Données de notification invalides", fields)
	}
	return nil
}

// MarkRead sets the status to read. Every call stamps dateLecture again.
func (n *Notification) MarkRead(now time.Time) {
	n.Statut = StatusLu
	n.DateLecture = &now
}

// Archive sets the status to archived. UpdatedAt is the archival clock.
func (n *Notification) Archive() {
	n.Statut = StatusArchive
}

// PerformAction completes the first action entry of the given type.
func (n *Notification) PerformAction(kind ActionType, now time.Time) error {
	for i := range n.Actions {
		if n.Actions[i].Type == kind {
			n.Actions[i].Completed = true
			n.Actions[i].DateCompletion = &now
			return nil
		}
	}
	return ErrActionNotFound()
}

func (n *Notification) AddAction(kind ActionType, label, link string) error {
	if !kind.Valid() {
		return NewValidationError("Type d'action invalide", map[string]string{"type": "Type d'action invalide"})
	}
	n.Actions = append(n.Actions, Action{Type: kind, Label: label, Lien: link})
	return nil
}

// ShouldDeactivate reports whether an archived notification has been left
// untouched for longer than ArchiveRetention.
func ShouldDeactivate(status NotificationStatus, lastUpdated, now time.Time) bool {
	return status == StatusArchive && now.Sub(lastUpdated) > ArchiveRetention
}

// BeforeSave runs right before a write. UpdatedAt must still hold the
// previous write time when it is called.
func (n *Notification) BeforeSave(now time.Time) {
	if !n.UpdatedAt.IsZero() && ShouldDeactivate(n.Statut, n.UpdatedAt, now) {
		n.IsActive = false
	}
	n.Touch(now)
}

// Target returns the polymorphic reference of the notification.
func (n *Notification) Target() Reference {
	return Reference{Kind: ReferenceKindFor(n.Type), ID: n.Reference}
}
