package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"casedesk/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// AssistantReplyDelay simulates the latency of a real model call
const AssistantReplyDelay = 600 * time.Millisecond

var promptPolicy = bluemonday.StrictPolicy()

// AssistantRequest is a free-text prompt with optional case and
// document context.
type AssistantRequest struct {
	Prompt     string  `json:"prompt" validate:"required"`
	CaseID     *string `json:"case_id,omitempty"`
	DocumentID *string `json:"document_id,omitempty"`
}

// AssistantReply is the scripted assistant's answer
type AssistantReply struct {
	Reply string `json:"reply"`
}

// Ask produces a scripted reply chosen by keyword match against the
// prompt. This is a deterministic stand-in for a model integration; a
// real service can replace it behind the same contract. The configured
// delay is honored unless the context is cancelled first.
func Ask(ctx context.Context, db *gorm.DB, firmID string, req AssistantRequest) (*AssistantReply, error) {
	prompt := strings.ToLower(promptPolicy.Sanitize(req.Prompt))

	var caseRef string
	if req.CaseID != nil {
		var caseRecord models.Case
		if err := db.Where("firm_id = ?", firmID).First(&caseRecord, "id = ?", *req.CaseID).Error; err == nil {
			caseRef = fmt.Sprintf(" for case %s (%s)", caseRecord.CaseNumber, caseRecord.Title)
		}
	}
	if req.DocumentID != nil {
		var doc models.Document
		if err := db.Where("firm_id = ?", firmID).First(&doc, "id = ?", *req.DocumentID).Error; err == nil {
			caseRef += fmt.Sprintf(", with document %q attached", doc.Name)
		}
	}

	var reply string
	switch {
	case strings.Contains(prompt, "draft"):
		reply = "I can help you draft that" + caseRef + ". Start from one of your firm's templates, and I'll suggest the standard sections: parties, recitals, operative terms, and signature blocks."
	case strings.Contains(prompt, "analyze"), strings.Contains(prompt, "review"):
		reply = "Here's my review approach" + caseRef + ": I'd check the parties and dates for consistency, flag missing signatures or exhibits, and compare the security-interest terms against the recorded amounts."
	case strings.Contains(prompt, "summarize"):
		reply = "Summary" + caseRef + ": I'd condense the filing history, the current status, outstanding deadlines, and the financial position into a one-page brief."
	case strings.Contains(prompt, "deadline"), strings.Contains(prompt, "timeline"):
		reply = "For deadlines" + caseRef + ", check the upcoming list on your dashboard - it covers everything due in the next seven days. I can also walk the case's full timeline from filing to today."
	default:
		reply = "Could you tell me a bit more about what you need? I can draft documents, review or analyze filings, summarize a case, or walk through deadlines and timelines."
	}

	select {
	case <-time.After(AssistantReplyDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &AssistantReply{Reply: reply}, nil
}
