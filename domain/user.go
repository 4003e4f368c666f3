package domain

import (
	"encoding/json"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role int

const (
	ADMIN Role = iota + 1
	RESPONSABLE
	EMPLOYE
)

func (r Role) String() string {
	if r < ADMIN || r > EMPLOYE {
		return ""
	}
	return [...]string{"admin", "responsable", "employe"}[r-1]
}

func RoleFromString(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "admin":
		return ADMIN, nil
	case "responsable":
		return RESPONSABLE, nil
	case "employe", "":
		return EMPLOYE, nil
	default:
		return 0, errors.New("invalid role")
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	role, err := RoleFromString(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Roles are stored by name so list filters can match ?role=admin.
func (r Role) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.String())
}

func (r *Role) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return errors.New("role must be a string")
	}
	role, err := RoleFromString(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

type User struct {
	Model `bson:",inline"`

	Nom       string              `bson:"nom" json:"nom" validate:"required,max=100"`
	Prenom    string              `bson:"prenom" json:"prenom" validate:"required,max=100"`
	Email     string              `bson:"email" json:"email" validate:"required,email"`
	Password  string              `bson:"password" json:"-"`
	Role      Role                `bson:"role" json:"role"`
	Service   *primitive.ObjectID `bson:"service,omitempty" json:"service,omitempty"`
	Poste     *primitive.ObjectID `bson:"poste,omitempty" json:"poste,omitempty"`
	Position  *primitive.ObjectID `bson:"position,omitempty" json:"position,omitempty"`
	Telephone string              `bson:"telephone,omitempty" json:"telephone,omitempty" validate:"omitempty,max=30"`
	IsActive  bool                `bson:"isActive" json:"isActive"`
}

type Users []*User

func (u *User) IsAdmin() bool {
	return u.Role == ADMIN
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.Prenom + " " + u.Nom)
}

