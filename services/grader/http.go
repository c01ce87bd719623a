// Package gradersvc talks to the external grading backend.
package gradersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/submission"
)

type httpGrader struct {
	url    string
	client *http.Client
	logger core.Logger
}

var _ submission.Grader = (*httpGrader)(nil)

func NewHTTPGrader(logger core.Logger) *httpGrader {
	return &httpGrader{
		url:    core.Conf.Grader.URL,
		client: &http.Client{Timeout: core.Conf.Grader.Timeout},
		logger: logger,
	}
}

type gradeRequest struct {
	AnswerKeyURL  string `json:"answer_key_url"`
	SubmissionURL string `json:"submission_url"`
}

func (g *httpGrader) Grade(ctx context.Context, answerKeyURL, submissionURL string) (submission.Grade, error) {
	body, err := json.Marshal(gradeRequest{AnswerKeyURL: answerKeyURL, SubmissionURL: submissionURL})
	if err != nil {
		return submission.Grade{}, errors.Wrap(err, "encoding grade request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return submission.Grade{}, errors.Wrap(err, "building grade request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("grading backend unreachable", err)
		return submission.Grade{}, submission.ErrGraderUnavailable
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		g.logger.Warn("grading backend returned non-OK status", map[string]interface{}{"status": res.StatusCode})
		return submission.Grade{}, submission.ErrGraderUnavailable
	}

	var grade submission.Grade
	if err = json.NewDecoder(res.Body).Decode(&grade); err != nil {
		g.logger.Warn("decoding grade response", err)
		return submission.Grade{}, submission.ErrGraderUnavailable
	}
	return grade, nil
}
