// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package models

// Poll type constants
const (
	TypePoll           = "poll"
	TypeJointStatement = "jointStatement"
)

// JointStatementPrefix classifies poll ids: ids beginning with this literal
// are joint statements, everything else is an ordinary poll.
const JointStatementPrefix = "joint_statement"

// Acting capacity constants
const (
	CapacityIndividual   = "individual"
	CapacityOrganisation = "representingOrganisation"
)

// Action names accepted by the dispatch endpoint
const (
	ActionValidateToken    = "validateToken"
	ActionVote             = "vote"
	ActionCreatePoll       = "createPoll"
	ActionUploadAttachment = "uploadAttachment"
	ActionGetAttachmentURL = "getAttachmentUrl"
	ActionGetPollMetadata  = "getPollMetadata"
	ActionGetVotes         = "getVotes"
)

// Request types

// ActionRequest is the single dispatch body: one action per request, with
// the union of all action-specific fields. Handlers validate per action.
type ActionRequest struct {
	Action string `json:"action"`
	Token  string `json:"token,omitempty"`

	// vote / createPoll / attachment actions
	PollID               string `json:"pollId,omitempty"`
	Option               string `json:"option,omitempty"`
	Title                string `json:"title,omitempty"`
	Name                 string `json:"name,omitempty"`
	ActingCapacity       string `json:"actingCapacity,omitempty"`
	ExternallyVerifiedBy string `json:"externallyVerifiedBy,omitempty"`
	CityID               string `json:"cityId,omitempty"`

	// createPoll
	DocumentURL string `json:"documentUrl,omitempty"`
	OrganisedBy string `json:"organisedBy,omitempty"`

	// uploadAttachment / getAttachmentUrl
	AttachmentID string `json:"attachmentId,omitempty"`

	// getVotes filter
	IdentityID string `json:"identityId,omitempty"`
}

// Response types

type ValidateTokenResponse struct {
	Message string `json:"message"`
	City    City   `json:"city"`
}

type VoteResponse struct {
	Message string `json:"message"`
	PollID  string `json:"pollId"`
}

type CreatePollResponse struct {
	Message string `json:"message"`
	PollID  string `json:"pollId"`
	Poll    Poll   `json:"poll"`
}

type UploadAttachmentResponse struct {
	Message         string `json:"message"`
	FormattedPollID string `json:"formattedPollId"`
	UploadURL       string `json:"uploadUrl"`
	ReadURL         string `json:"readUrl"`
}

type AttachmentURLResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

type PollMetadataResponse struct {
	Message  string       `json:"message"`
	Metadata PollMetadata `json:"metadata"`
}

type VotesResponse struct {
	Message string           `json:"message"`
	Polls   map[string]*Poll `json:"polls"`
}

// Domain types

// Poll is one entry in the shared ledger document. Votes grow by appending
// in arrival order; every other field is set once at creation.
type Poll struct {
	Type        string `json:"type"`
	Votes       []Vote `json:"votes"`
	DocumentURL string `json:"documentURL,omitempty"`
	OrganisedBy string `json:"organisedBy,omitempty"`
	CreatedAt   int64  `json:"createdAt"` // epoch millis
}

// Vote is immutable once appended to a poll.
type Vote struct {
	Time                 int64  `json:"time"` // epoch millis at capture
	Option               string `json:"option"`
	Author               Author `json:"author"`
	AssociatedCityID     string `json:"associatedCityId"`
	ExternallyVerifiedBy string `json:"externallyVerifiedBy,omitempty"`
}

// Author identifies who cast a vote and in what capacity.
type Author struct {
	Title          string `json:"title"`
	Name           string `json:"name"`
	ActingCapacity string `json:"actingCapacity"`
}

// PollMetadata is the lock-free read view of a poll.
type PollMetadata struct {
	Type        string `json:"type"`
	DocumentURL string `json:"documentURL,omitempty"`
	OrganisedBy string `json:"organisedBy,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// City is the resolved authorization subject behind an access token.
type City struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Error response envelope

type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
