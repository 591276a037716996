package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ActionMetrics records the outcomes of member-facing circle actions.
type ActionMetrics struct {
	inviteRotations   prometheus.Counter
	inviteRedemptions *prometheus.CounterVec
	mentionDuplicates prometheus.Counter
	attendanceUpserts prometheus.Counter
}

// NewActionMetrics registers the action counters on the provided registerer.
func NewActionMetrics(reg prometheus.Registerer) *ActionMetrics {
	if reg == nil {
		return &ActionMetrics{}
	}
	rotations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invite_rotations_total",
		Help: "Invite codes issued, replacing any previous code.",
	})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invite_redemptions_total",
		Help: "Invite code redemption attempts by outcome.",
	}, []string{"outcome"})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mention_duplicates_total",
		Help: "Duplicate mention inserts absorbed as no-ops.",
	})
	attendance := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_upserts_total",
		Help: "Attendance rows written, including overwrites.",
	})
	reg.MustRegister(rotations, redemptions, duplicates, attendance)
	return &ActionMetrics{
		inviteRotations:   rotations,
		inviteRedemptions: redemptions,
		mentionDuplicates: duplicates,
		attendanceUpserts: attendance,
	}
}

// IncInviteRotation counts an invite code replacement.
func (m *ActionMetrics) IncInviteRotation() {
	if m == nil || m.inviteRotations == nil {
		return
	}
	m.inviteRotations.Inc()
}

// IncInviteRedemption counts a redemption attempt with its outcome.
func (m *ActionMetrics) IncInviteRedemption(outcome string) {
	if m == nil || m.inviteRedemptions == nil {
		return
	}
	m.inviteRedemptions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncMentionDuplicate counts a duplicate mention absorbed as success.
func (m *ActionMetrics) IncMentionDuplicate() {
	if m == nil || m.mentionDuplicates == nil {
		return
	}
	m.mentionDuplicates.Inc()
}

// IncAttendanceUpsert counts an attendance write.
func (m *ActionMetrics) IncAttendanceUpsert() {
	if m == nil || m.attendanceUpserts == nil {
		return
	}
	m.attendanceUpserts.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
