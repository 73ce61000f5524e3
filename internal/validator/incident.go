package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/ewill123/nec-callcenter/internal/model"
	playground "github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)

// FieldError is a single per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every field failure of one record, at most one per field.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Message returns the failure attached to field, if any.
func (e Errors) Message(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// incidentForm is the per-field shape checked by the struct validator.
// witness_role has no tag: its rule depends on witness_choice and runs as a
// separate pass in WitnessRule.
type incidentForm struct {
	Date               string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeOfIncident     string `json:"time_of_incident" validate:"omitempty,clock"`
	TimeOfReport       string `json:"time_of_report" validate:"omitempty,clock"`
	CallerName         string `json:"caller_name" validate:"required"`
	CallerMobile       string `json:"caller_mobile" validate:"required,phone"`
	Sex                string `json:"sex" validate:"required,oneof=Male Female Other"`
	PrecinctName       string `json:"precinct_name" validate:"required"`
	Location           string `json:"location" validate:"required"`
	PrecinctCode       string `json:"precinct_code"`
	PollingPlaceNumber string `json:"polling_place_number"`
	WitnessChoice      string `json:"witness_choice" validate:"omitempty,oneof=incident_witnessed arrived_after party_to_incident"`
	WitnessRole        string `json:"witness_role"`
	IncidentChoice     string `json:"incident_choice" validate:"omitempty,oneof=polling_not_open materials_not_arrived missing_on_roll no_security tension_unrest campaigning hate_speech overcrowding"`
	IncidentOther      string `json:"incident_other"`
	Resolution         string `json:"resolution"`
}

// Fields lists the input keys in form order. Errors are reported in this order.
var Fields = []string{
	"date",
	"time_of_incident",
	"time_of_report",
	"caller_name",
	"caller_mobile",
	"sex",
	"precinct_name",
	"location",
	"precinct_code",
	"polling_place_number",
	"witness_choice",
	"witness_role",
	"incident_choice",
	"incident_other",
	"resolution",
}

var messages = map[string]string{
	"date.required":          "Date is required",
	"date.datetime":          "Date must be in YYYY-MM-DD format",
	"time_of_incident.clock": "Time of incident must be HH:MM",
	"time_of_report.clock":   "Time of report must be HH:MM",
	"caller_name.required":   "Caller name is required",
	"caller_mobile.required": "Caller mobile is required",
	"caller_mobile.phone":    "Invalid phone number",
	"sex.required":           "Sex is required",
	"sex.oneof":              "Sex is required",
	"precinct_name.required": "Precinct name required",
	"location.required":      "Location required",
	"witness_choice.oneof":   "Invalid witness choice",
	"incident_choice.oneof":  "Invalid incident type",
}

// WitnessRoleMessage is reported on witness_role when a witness choice is
// set without a caller role.
const WitnessRoleMessage = "Caller role required if witness selected"

type Validator struct {
	validate *playground.Validate
}

func New() *Validator {
	v := playground.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl playground.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl playground.FieldLevel) bool {
		return validClock(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate checks an untyped input record (a decoded JSON object) and returns
// the trimmed report. The report is returned even when validation fails so a
// caller can redisplay what was submitted. On failure the error is Errors.
// Unknown keys are ignored; the returned report never carries an id or status.
func (v *Validator) Validate(raw map[string]any) (model.IncidentReport, error) {
	failures := make(map[string]string)
	values := make(map[string]string, len(Fields))
	for _, field := range Fields {
		s, ok := stringValue(raw[field])
		if !ok {
			failures[field] = "must be a string"
			continue
		}
		values[field] = s
	}

	form := incidentForm{
		Date:               values["date"],
		TimeOfIncident:     values["time_of_incident"],
		TimeOfReport:       values["time_of_report"],
		CallerName:         values["caller_name"],
		CallerMobile:       values["caller_mobile"],
		Sex:                values["sex"],
		PrecinctName:       values["precinct_name"],
		Location:           values["location"],
		PrecinctCode:       values["precinct_code"],
		PollingPlaceNumber: values["polling_place_number"],
		WitnessChoice:      values["witness_choice"],
		WitnessRole:        values["witness_role"],
		IncidentChoice:     values["incident_choice"],
		IncidentOther:      values["incident_other"],
		Resolution:         values["resolution"],
	}

	if err := v.validate.Struct(form); err != nil {
		fieldErrs, ok := err.(playground.ValidationErrors)
		if !ok {
			return model.IncidentReport{}, fmt.Errorf("validate incident: %w", err)
		}
		for _, fe := range fieldErrs {
			if _, seen := failures[fe.Field()]; seen {
				continue
			}
			failures[fe.Field()] = messageFor(fe)
		}
	}

	report := form.report()

	if fe := WitnessRule(report); fe != nil {
		if _, seen := failures[fe.Field]; !seen {
			failures[fe.Field] = fe.Message
		}
	}

	if len(failures) == 0 {
		return report, nil
	}
	errs := make(Errors, 0, len(failures))
	for _, field := range Fields {
		if msg, ok := failures[field]; ok {
			errs = append(errs, FieldError{Field: field, Message: msg})
		}
	}
	return report, errs
}

// WitnessRule is the one cross-field rule: a caller role is required when a
// witness choice is present. It runs after the per-field checks.
func WitnessRule(r model.IncidentReport) *FieldError {
	if r.WitnessChoice != "" && strings.TrimSpace(r.WitnessRole) == "" {
		return &FieldError{Field: "witness_role", Message: WitnessRoleMessage}
	}
	return nil
}

func (f incidentForm) report() model.IncidentReport {
	return model.IncidentReport{
		Date:               f.Date,
		TimeOfIncident:     f.TimeOfIncident,
		TimeOfReport:       f.TimeOfReport,
		CallerName:         f.CallerName,
		CallerMobile:       f.CallerMobile,
		Sex:                model.Sex(f.Sex),
		PrecinctName:       f.PrecinctName,
		PrecinctCode:       f.PrecinctCode,
		PollingPlaceNumber: f.PollingPlaceNumber,
		Location:           f.Location,
		WitnessChoice:      model.WitnessChoice(f.WitnessChoice),
		WitnessRole:        f.WitnessRole,
		IncidentChoice:     model.IncidentChoice(f.IncidentChoice),
		IncidentOther:      f.IncidentOther,
		Resolution:         f.Resolution,
	}
}

// stringValue trims string inputs. nil is treated as absent.
func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(s), true
	default:
		return "", false
	}
}

func messageFor(fe playground.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

func validClock(s string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
