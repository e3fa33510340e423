package email

const (
	subjectAssignmentNoticeFmt = "New %s assigned to you"
	subjectBookingConfirmation = "Your booking is confirmed"
	subjectLeadReceived        = "We received your inquiry"
)
