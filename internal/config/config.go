package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultTodoInstance is the annotation instance to-do items live in.
const DefaultTodoInstance = "segmentation_todo"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Run is the configuration of one marktips invocation. It is built once at
// startup and passed explicitly to every stage.
type Run struct {
	Server           string `validate:"required"`
	UUID             string `validate:"required"`
	Body             string `validate:"required,numeric"`
	TodoInstance     string `validate:"required"`
	SkeletonInstance string
	RoI              string
	ExcludedRoI      string
	// User tags every DVID request.
	User string `validate:"required"`
	// Assignee is written as the user property of new to-do items.
	Assignee     string `validate:"required"`
	FindOnly     bool
	DryRun       bool
	ShowProgress bool
	Verbose      bool
	Ledger       string
	Timeout      time.Duration `validate:"gte=0"`
}

// Validate checks required fields and value ranges.
func (r *Run) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if r.RoI != "" && r.RoI == r.ExcludedRoI {
		return fmt.Errorf("invalid configuration: RoI %q is both included and excluded", r.RoI)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "numeric":
		return fmt.Sprintf("%s must be numeric, got %q", fe.Field(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	}
	return fmt.Sprintf("%s failed %s check", fe.Field(), fe.Tag())
}

// FillDefaults sets the assignee, instance names and user when they were not
// given.
func (r *Run) FillDefaults() {
	if r.TodoInstance == "" {
		r.TodoInstance = DefaultTodoInstance
	}
	if r.User == "" {
		r.User = CurrentUser()
	}
	if r.Assignee == "" {
		r.Assignee = r.User
	}
}

// CurrentUser returns the login name of the process owner.
func CurrentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
