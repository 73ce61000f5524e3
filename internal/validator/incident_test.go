package validator

import (
	"testing"

	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() map[string]any {
	return map[string]any{
		"date":          "2024-01-01",
		"caller_name":   "Jane Doe",
		"caller_mobile": "+231555123",
		"sex":           "Female",
		"precinct_name": "P1",
		"location":      "City Hall",
	}
}

func TestValidateAcceptsMinimalReport(t *testing.T) {
	report, err := New().Validate(validInput())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", report.Date)
	assert.Equal(t, "Jane Doe", report.CallerName)
	assert.Equal(t, "+231555123", report.CallerMobile)
	assert.Equal(t, model.SexFemale, report.Sex)
	assert.Equal(t, "P1", report.PrecinctName)
	assert.Equal(t, "City Hall", report.Location)
	assert.Empty(t, report.ID)
	assert.Empty(t, report.Status)
}

func TestValidateRejectsInvalidPhone(t *testing.T) {
	in := validInput()
	in["caller_mobile"] = "abc"

	_, err := New().Validate(in)
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "caller_mobile", errs[0].Field)
	assert.Equal(t, "Invalid phone number", errs[0].Message)
}

func TestValidatePhoneFormat(t *testing.T) {
	tests := []struct {
		mobile string
		ok     bool
	}{
		{"1234567", true},
		{"+123456789012345", true},
		{"123456", false},
		{"1234567890123456", false},
		{"++1234567", false},
		{"123-4567", false},
		{" 0777123456 ", true},
	}
	for _, tt := range tests {
		t.Run(tt.mobile, func(t *testing.T) {
			in := validInput()
			in["caller_mobile"] = tt.mobile
			_, err := New().Validate(in)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var errs Errors
			require.ErrorAs(t, err, &errs)
			msg, found := errs.Message("caller_mobile")
			assert.True(t, found)
			assert.Equal(t, "Invalid phone number", msg)
		})
	}
}

func TestValidateRequiredFields(t *testing.T) {
	required := []string{"date", "caller_name", "caller_mobile", "sex", "precinct_name", "location"}
	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			delete(in, field)

			_, err := New().Validate(in)
			var errs Errors
			require.ErrorAs(t, err, &errs)
			_, found := errs.Message(field)
			assert.True(t, found, "expected an error on %s", field)
		})
	}
}

func TestValidateBlankIsMissing(t *testing.T) {
	in := validInput()
	in["caller_name"] = "   "
	in["location"] = "\t"

	_, err := New().Validate(in)
	var errs Errors
	require.ErrorAs(t, err, &errs)

	msg, _ := errs.Message("caller_name")
	assert.Equal(t, "Caller name is required", msg)
	msg, _ = errs.Message("location")
	assert.Equal(t, "Location required", msg)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := New().Validate(map[string]any{})
	var errs Errors
	require.ErrorAs(t, err, &errs)

	fields := make([]string, len(errs))
	for i, fe := range errs {
		fields[i] = fe.Field
	}
	assert.Equal(t, []string{"date", "caller_name", "caller_mobile", "sex", "precinct_name", "location"}, fields)
}

func TestValidateEnumerations(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"unknown sex", "sex", "male", "Sex is required"},
		{"unknown witness choice", "witness_choice", "overheard", "Invalid witness choice"},
		{"unknown incident choice", "incident_choice", "riot", "Invalid incident type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in[tt.field] = tt.value
			in["witness_role"] = "Voter"

			_, err := New().Validate(in)
			var errs Errors
			require.ErrorAs(t, err, &errs)
			msg, found := errs.Message(tt.field)
			require.True(t, found)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestValidateAcceptsEveryCategory(t *testing.T) {
	for _, c := range model.IncidentChoices {
		in := validInput()
		in["incident_choice"] = string(c)
		_, err := New().Validate(in)
		assert.NoError(t, err, string(c))
	}
	for _, w := range model.WitnessChoices {
		in := validInput()
		in["witness_choice"] = string(w)
		in["witness_role"] = "Poll worker"
		_, err := New().Validate(in)
		assert.NoError(t, err, string(w))
	}
}

func TestValidateWitnessRole(t *testing.T) {
	tests := []struct {
		name    string
		choice  any
		role    any
		wantErr bool
	}{
		{"choice set, role missing", "incident_witnessed", nil, true},
		{"choice set, role empty", "arrived_after", "", true},
		{"choice set, role whitespace", "party_to_incident", "   ", true},
		{"choice set, role given", "incident_witnessed", "Supervisor", false},
		{"choice absent, role empty", nil, "", false},
		{"choice empty, role empty", "", "", false},
		{"choice absent, role given", nil, "Voter", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in["witness_choice"] = tt.choice
			in["witness_role"] = tt.role

			_, err := New().Validate(in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var errs Errors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, "witness_role", errs[0].Field)
			assert.Equal(t, WitnessRoleMessage, errs[0].Message)
		})
	}
}

func TestWitnessRuleInIsolation(t *testing.T) {
	assert.Nil(t, WitnessRule(model.IncidentReport{}))
	assert.Nil(t, WitnessRule(model.IncidentReport{WitnessChoice: model.WitnessArrivedAfter, WitnessRole: "Voter"}))

	fe := WitnessRule(model.IncidentReport{WitnessChoice: model.WitnessArrivedAfter, WitnessRole: " "})
	require.NotNil(t, fe)
	assert.Equal(t, "witness_role", fe.Field)
}

func TestValidateTrimsEveryString(t *testing.T) {
	in := map[string]any{
		"date":                 " 2024-03-05 ",
		"time_of_incident":     " 07:30",
		"time_of_report":       "08:15:00 ",
		"caller_name":          "  Jane Doe  ",
		"caller_mobile":        " +231555123 ",
		"sex":                  " Other ",
		"precinct_name":        " P1 ",
		"precinct_code":        " 0101 ",
		"polling_place_number": " 3 ",
		"location":             " City Hall ",
		"witness_choice":       " incident_witnessed ",
		"witness_role":         " Poll worker ",
		"incident_choice":      " overcrowding ",
		"incident_other":       " long queue ",
		"resolution":           " ",
	}

	report, err := New().Validate(in)
	require.NoError(t, err)

	assert.Equal(t, model.IncidentReport{
		Date:               "2024-03-05",
		TimeOfIncident:     "07:30",
		TimeOfReport:       "08:15:00",
		CallerName:         "Jane Doe",
		CallerMobile:       "+231555123",
		Sex:                model.SexOther,
		PrecinctName:       "P1",
		PrecinctCode:       "0101",
		PollingPlaceNumber: "3",
		Location:           "City Hall",
		WitnessChoice:      model.WitnessIncidentWitnessed,
		WitnessRole:        "Poll worker",
		IncidentChoice:     model.IncidentOvercrowding,
		IncidentOther:      "long queue",
	}, report)
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"date not iso", "date", "01/02/2024"},
		{"date impossible", "date", "2024-02-30"},
		{"incident time", "time_of_incident", "7pm"},
		{"report time", "time_of_report", "25:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in[tt.field] = tt.value
			_, err := New().Validate(in)
			var errs Errors
			require.ErrorAs(t, err, &errs)
			_, found := errs.Message(tt.field)
			assert.True(t, found)
		})
	}
}

func TestValidateNonStringValue(t *testing.T) {
	in := validInput()
	in["caller_name"] = 42
	in["precinct_code"] = true

	_, err := New().Validate(in)
	var errs Errors
	require.ErrorAs(t, err, &errs)

	msg, _ := errs.Message("caller_name")
	assert.Equal(t, "must be a string", msg)
	msg, _ = errs.Message("precinct_code")
	assert.Equal(t, "must be a string", msg)
	assert.Len(t, errs, 2)
}

func TestValidateIgnoresUnknownKeys(t *testing.T) {
	in := validInput()
	in["id"] = "forged"
	in["status"] = "resolved"
	in["extra"] = map[string]any{"x": 1}

	report, err := New().Validate(in)
	require.NoError(t, err)
	assert.Empty(t, report.ID)
	assert.Empty(t, report.Status)
}
