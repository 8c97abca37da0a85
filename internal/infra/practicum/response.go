package practicum

import (
	"net/http"
	"strings"

	"homework_status_bot/internal/domain/homework"

	"github.com/tidwall/gjson"
)

// decodeResponse turns a raw API answer into a validated StatusResponse.
// An explicit error payload wins over the HTTP status code so the server's
// reason reaches the logs.
func decodeResponse(statusCode int, body []byte, req homework.RequestInfo) (*homework.StatusResponse, error) {
	valid := gjson.ValidBytes(body)
	var parsed gjson.Result
	if valid {
		parsed = gjson.ParseBytes(body)
		if parsed.IsObject() {
			if reason, ok := serverErrorReason(parsed); ok {
				return nil, &homework.ServerError{Request: req, StatusCode: statusCode, Reason: reason}
			}
		}
	}

	if statusCode != http.StatusOK {
		return nil, &homework.UnexpectedStatusCodeError{Request: req, StatusCode: statusCode}
	}
	if !valid {
		return nil, &homework.MalformedResponseError{Reason: "body is not valid JSON"}
	}
	if !parsed.IsObject() {
		return nil, &homework.MalformedResponseError{Reason: "expected a JSON object"}
	}
	return ParseStatusResponse(parsed)
}

// serverErrorReason extracts "code"/"error" from an error payload.
// The API nests the message as {"error": {"error": "..."}} in some answers.
func serverErrorReason(parsed gjson.Result) (string, bool) {
	code := parsed.Get("code")
	errField := parsed.Get("error")
	if !present(code) && !present(errField) {
		return "", false
	}

	var parts []string
	if present(code) {
		parts = append(parts, "code="+code.String())
	}
	if present(errField) {
		msg := errField.String()
		if errField.IsObject() {
			if nested := errField.Get("error"); present(nested) {
				msg = nested.String()
			} else {
				msg = errField.Raw
			}
		}
		parts = append(parts, "error="+msg)
	}
	return strings.Join(parts, " "), true
}

// ParseStatusResponse validates the shape of the answer and extracts the reports.
// The newest entry must carry both fields; older ones that don't are skipped.
func ParseStatusResponse(parsed gjson.Result) (*homework.StatusResponse, error) {
	homeworks := parsed.Get("homeworks")
	if !homeworks.Exists() {
		return nil, &homework.MalformedResponseError{Reason: `key "homeworks" is missing`}
	}
	if !homeworks.IsArray() {
		return nil, &homework.MalformedResponseError{Reason: `"homeworks" is not a list`}
	}

	resp := &homework.StatusResponse{}
	for i, item := range homeworks.Array() {
		report, err := parseReport(item)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			continue
		}
		resp.Homeworks = append(resp.Homeworks, report)
	}

	if cd := parsed.Get("current_date"); cd.Type == gjson.Number {
		resp.CurrentDate = cd.Int()
		resp.HasCurrentDate = true
	}
	return resp, nil
}

func parseReport(item gjson.Result) (homework.Report, error) {
	if !item.IsObject() {
		return homework.Report{}, &homework.MalformedResponseError{Reason: "homework entry is not an object"}
	}
	status := item.Get("status")
	if !present(status) {
		return homework.Report{}, &homework.MissingFieldError{Field: "status"}
	}
	name := item.Get("homework_name")
	if !present(name) {
		return homework.Report{}, &homework.MissingFieldError{Field: "homework_name"}
	}
	return homework.Report{
		HomeworkName: name.String(),
		Status:       homework.Status(status.String()),
	}, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}
