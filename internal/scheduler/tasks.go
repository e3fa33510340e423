package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAssignmentNotice = "assignment.notice"

const TaskBookingConfirmation = "bookings.confirmation"

const TaskLeadReceived = "leads.received"

// AssignmentNoticePayload carries everything the worker needs to email an
// agent about a newly assigned work item.
type AssignmentNoticePayload struct {
	AgentID      string `json:"agentId"`
	WorkItemID   string `json:"workItemId"`
	WorkItemType string `json:"workItemType"`
	CustomerName string `json:"customerName"`
}

type BookingConfirmationPayload struct {
	BookingID     string `json:"bookingId"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	PackageName   string `json:"packageName"`
}

type LeadReceivedPayload struct {
	LeadID        string `json:"leadId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

func NewAssignmentNoticeTask(payload AssignmentNoticePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssignmentNotice, data), nil
}

func ParseAssignmentNoticePayload(task *asynq.Task) (AssignmentNoticePayload, error) {
	var payload AssignmentNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AssignmentNoticePayload{}, err
	}
	return payload, nil
}

func NewBookingConfirmationTask(payload BookingConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingConfirmation, data), nil
}

func ParseBookingConfirmationPayload(task *asynq.Task) (BookingConfirmationPayload, error) {
	var payload BookingConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BookingConfirmationPayload{}, err
	}
	return payload, nil
}

func NewLeadReceivedTask(payload LeadReceivedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadReceived, data), nil
}

func ParseLeadReceivedPayload(task *asynq.Task) (LeadReceivedPayload, error) {
	var payload LeadReceivedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadReceivedPayload{}, err
	}
	return payload, nil
}
