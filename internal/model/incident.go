package model

import (
	"errors"
	"time"
)

// IncidentReport is a single logged call-center record describing a
// polling-place issue.
type IncidentReport struct {
	ID                 string         `json:"id"`
	Date               string         `json:"date"`
	TimeOfIncident     string         `json:"time_of_incident,omitempty"`
	TimeOfReport       string         `json:"time_of_report,omitempty"`
	CallerName         string         `json:"caller_name"`
	CallerMobile       string         `json:"caller_mobile"`
	Sex                Sex            `json:"sex"`
	PrecinctName       string         `json:"precinct_name"`
	PrecinctCode       string         `json:"precinct_code,omitempty"`
	PollingPlaceNumber string         `json:"polling_place_number,omitempty"`
	Location           string         `json:"location"`
	WitnessChoice      WitnessChoice  `json:"witness_choice,omitempty"`
	WitnessRole        string         `json:"witness_role,omitempty"`
	IncidentChoice     IncidentChoice `json:"incident_choice,omitempty"`
	IncidentOther      string         `json:"incident_other,omitempty"`
	Resolution         string         `json:"resolution,omitempty"`
	Status             Status         `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DateLayout is the calendar date format used for reports and date groups.
const DateLayout = "2006-01-02"

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	SexOther  Sex = "Other"
)

type WitnessChoice string

const (
	WitnessIncidentWitnessed WitnessChoice = "incident_witnessed"
	WitnessArrivedAfter      WitnessChoice = "arrived_after"
	WitnessPartyToIncident   WitnessChoice = "party_to_incident"
)

// WitnessChoices in form order.
var WitnessChoices = []WitnessChoice{
	WitnessIncidentWitnessed,
	WitnessArrivedAfter,
	WitnessPartyToIncident,
}

var witnessLabels = map[WitnessChoice]string{
	WitnessIncidentWitnessed: "Incident witnessed by Caller",
	WitnessArrivedAfter:      "Caller arrived after incident",
	WitnessPartyToIncident:   "Caller is party to incident",
}

func (w WitnessChoice) Valid() bool {
	_, ok := witnessLabels[w]
	return ok
}

func (w WitnessChoice) Label() string {
	if l, ok := witnessLabels[w]; ok {
		return l
	}
	return string(w)
}

type IncidentChoice string

const (
	IncidentPollingNotOpen      IncidentChoice = "polling_not_open"
	IncidentMaterialsNotArrived IncidentChoice = "materials_not_arrived"
	IncidentMissingOnRoll       IncidentChoice = "missing_on_roll"
	IncidentNoSecurity          IncidentChoice = "no_security"
	IncidentTensionUnrest       IncidentChoice = "tension_unrest"
	IncidentCampaigning         IncidentChoice = "campaigning"
	IncidentHateSpeech          IncidentChoice = "hate_speech"
	IncidentOvercrowding        IncidentChoice = "overcrowding"
)

// IncidentChoices in form order.
var IncidentChoices = []IncidentChoice{
	IncidentPollingNotOpen,
	IncidentMaterialsNotArrived,
	IncidentMissingOnRoll,
	IncidentNoSecurity,
	IncidentTensionUnrest,
	IncidentCampaigning,
	IncidentHateSpeech,
	IncidentOvercrowding,
}

var incidentLabels = map[IncidentChoice]string{
	IncidentPollingNotOpen:      "Polling place is not open",
	IncidentMaterialsNotArrived: "Polling materials have not arrived",
	IncidentMissingOnRoll:       "People cannot be located on the FRR",
	IncidentNoSecurity:          "No Security",
	IncidentTensionUnrest:       "Tension / Unrest / Intimidation",
	IncidentCampaigning:         "Campaigning at Center",
	IncidentHateSpeech:          "Hate Speech / Violence",
	IncidentOvercrowding:        "Overcrowding",
}

func (i IncidentChoice) Valid() bool {
	_, ok := incidentLabels[i]
	return ok
}

func (i IncidentChoice) Label() string {
	if l, ok := incidentLabels[i]; ok {
		return l
	}
	return string(i)
}

// ParseIncidentChoice returns the category named by s, or false when s is
// not one of the fixed categories.
func ParseIncidentChoice(s string) (IncidentChoice, bool) {
	c := IncidentChoice(s)
	return c, c.Valid()
}

type Status string

// Status constants
const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// StatusFor derives the status implied by a saved resolution.
func StatusFor(resolution string) Status {
	if resolution == "" {
		return StatusPending
	}
	return StatusResolved
}

// ErrNotFound is wrapped by StorageError when the store has no record for an id.
var ErrNotFound = errors.New("report not found")

// StorageError is any failure reported by the external store. Message is the
// store's own text and is passed to callers verbatim.
type StorageError struct {
	Op      string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err from operation op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Message: err.Error(), Err: err}
}
