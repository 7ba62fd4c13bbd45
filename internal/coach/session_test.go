package coach_test

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/repcoach/internal/coach"
	"github.com/misterclayt0n/repcoach/internal/pose"
	"github.com/misterclayt0n/repcoach/internal/rules"
	"github.com/misterclayt0n/repcoach/internal/testsupport"
)

type recorder struct {
	said []string
}

func (r *recorder) Announce(text string) { r.said = append(r.said, text) }

func newSession(t *testing.T, mode string) (*coach.Session, *recorder) {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	rec := &recorder{}
	s := coach.NewSession(table, coach.Options{
		User:      "ana",
		Announcer: rec,
		Log:       logrus.NewEntry(logger),
		Now:       func() time.Time { return testsupport.Epoch },
	})
	require.NoError(t, s.SelectMode(mode))
	return s, rec
}

func curl(deg float64) pose.Snapshot {
	return testsupport.WithAngle(testsupport.Standing(), pose.RightShoulder, pose.RightElbow, pose.RightWrist, deg)
}

func squat(deg float64) pose.Snapshot {
	return testsupport.WithAngle(testsupport.Standing(), pose.RightHip, pose.RightKnee, pose.RightAnkle, deg)
}

func bothKnees(deg float64) pose.Snapshot {
	s := testsupport.WithAngle(testsupport.Standing(), pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, deg)
	return testsupport.WithAngle(s, pose.RightHip, pose.RightKnee, pose.RightAnkle, deg)
}

func feed(s *coach.Session, start float64, shape func(float64) pose.Snapshot, angles ...float64) []coach.Result {
	var out []coach.Result
	for i, a := range angles {
		out = append(out, s.Process(testsupport.Frame(testsupport.At(start+float64(i)), shape(a))))
	}
	return out
}

func TestBicepCurlCountsOneRep(t *testing.T) {
	s, _ := newSession(t, "bicep_curl")

	results := feed(s, 0, curl, 170, 165, 40, 45, 170)

	assert.Equal(t, 1.0, s.RepCount())
	assert.Equal(t, "down", s.Phase())

	var counted []int
	for i, r := range results {
		if r.Counted {
			counted = append(counted, i)
		}
	}
	assert.Equal(t, []int{4}, counted)
	assert.Equal(t, []string{"Good job! 1 reps completed!"}, s.Feedback())
}

func TestModeSwitchDropsRepInProgress(t *testing.T) {
	s, _ := newSession(t, "bicep_curl")

	feed(s, 0, curl, 170, 40)
	assert.Equal(t, "up", s.Phase())

	require.NoError(t, s.SelectMode("squat"))
	assert.Equal(t, "", s.Phase())

	feed(s, 2, squat, 170)
	assert.Equal(t, 0.0, s.Tally("bicep_curl"))
	assert.Equal(t, 0.0, s.RepCount())
	assert.Equal(t, "up", s.Phase())

	// Coming back to the curl starts from scratch as well.
	require.NoError(t, s.SelectMode("bicep_curl"))
	feed(s, 3, curl, 170)
	assert.Equal(t, 0.0, s.RepCount())
}

func TestSelectUnknownModeKeepsState(t *testing.T) {
	s, _ := newSession(t, "bicep_curl")
	feed(s, 0, curl, 40)

	err := s.SelectMode("burpee")
	require.ErrorIs(t, err, rules.ErrUnknownMode)
	assert.Equal(t, "bicep_curl", s.Mode().ID)
	assert.Equal(t, "up", s.Phase())
}

func TestFrameWithoutLandmarksChangesNothing(t *testing.T) {
	s, rec := newSession(t, "pregnancy_squat")

	twisted := func(deg float64) pose.Snapshot {
		b := bothKnees(deg)
		b = testsupport.With(b, pose.LeftShoulder, 0.40, 0.30)
		return testsupport.With(b, pose.RightShoulder, 0.62, 0.30)
	}
	feed(s, 0, twisted, 120, 170)

	reps, phase, score, feedback := s.RepCount(), s.Phase(), s.SafetyScore(), s.Feedback()
	said := len(rec.said)
	require.Equal(t, 1.0, reps)
	require.Less(t, score, 100)

	res := s.Process(testsupport.Empty(testsupport.At(2)))

	assert.False(t, res.Detected)
	assert.Equal(t, reps, s.RepCount())
	assert.Equal(t, phase, s.Phase())
	assert.Equal(t, score, s.SafetyScore())
	assert.Equal(t, feedback, s.Feedback())
	assert.Len(t, rec.said, said)
	assert.Contains(t, res.Overlay, coach.NoPoseDetected)

	// The throttle was not touched either: the next alert still waits for the cooldown.
	res = s.Process(testsupport.Frame(testsupport.At(3), twisted(170)))
	assert.Empty(t, res.Announced)
}

func TestSafetyScoreNeverGoesNegative(t *testing.T) {
	s, _ := newSession(t, "pregnancy_squat")

	twisted := testsupport.With(testsupport.Standing(), pose.LeftShoulder, 0.40, 0.30)
	twisted = testsupport.With(twisted, pose.RightShoulder, 0.62, 0.30)

	for i := range 20 {
		res := s.Process(testsupport.Frame(testsupport.At(float64(i)), twisted))
		assert.GreaterOrEqual(t, res.SafetyScore, 0)
	}
	assert.Equal(t, 0, s.SafetyScore())
	assert.Equal(t, []string{"Avoid twisting motions - keep torso stable"}, s.Alerts())
}

func TestGeneralFamilyIsNotScored(t *testing.T) {
	s, _ := newSession(t, "squat")

	leaning := testsupport.With(squat(170), pose.Nose, 0.50, 0.75)
	res := s.Process(testsupport.Frame(testsupport.At(0), leaning))

	assert.Equal(t, 100, s.SafetyScore())
	assert.Equal(t, []string{"Avoid excessive forward bending"}, res.Alerts)
	for _, line := range res.Overlay {
		assert.NotContains(t, line, "Safety:")
	}
}

func TestSquatEndToEnd(t *testing.T) {
	s, _ := newSession(t, "squat")

	results := feed(s, 0, squat, 170, 168, 85, 82, 172)

	assert.Equal(t, 1.0, s.RepCount())
	assert.Equal(t, "up", s.Phase())

	last := results[len(results)-1]
	assert.Equal(t, []string{"Stand tall!"}, last.Feedback)
	assert.Equal(t, []string{"Squat", "Reps: 1", "Confidence: 100%", "Stand tall!"}, last.Overlay)
}

func TestCorrectiveFeedbackFollowsDirection(t *testing.T) {
	s, _ := newSession(t, "squat")

	res := feed(s, 0, squat, 170, 120, 85, 120)
	assert.Equal(t, []string{"Go deeper!"}, res[1].Feedback)
	assert.Equal(t, []string{"Stand all the way up"}, res[3].Feedback)
}

func TestHalfRepModes(t *testing.T) {
	s, _ := newSession(t, "neck_rotation")

	center := testsupport.Standing()
	turned := testsupport.With(center, pose.Nose, 0.60, 0.15)
	for i, snap := range []pose.Snapshot{center, turned, center, turned, center, turned} {
		s.Process(testsupport.Frame(testsupport.At(float64(i)), snap))
	}

	assert.Equal(t, 1.0, s.RepCount())
	assert.Equal(t, "turned", s.Phase())

	sum := s.Summary()
	assert.Equal(t, map[string]float64{"neck_rotation": 1}, sum.Tallies)
	assert.Equal(t, 6, sum.Frames)
	assert.Equal(t, 100, sum.SafetyScore)
	assert.Equal(t, "ana", sum.User)
	assert.Equal(t, testsupport.At(5), sum.EndedAt)
}

func TestVoicePriorityAndCooldown(t *testing.T) {
	s, rec := newSession(t, "squat")

	// Cue on entering the start band, rep announcement once the cooldown is over.
	r0 := s.Process(testsupport.Frame(testsupport.At(0), squat(170)))
	r1 := s.Process(testsupport.Frame(testsupport.At(3), squat(85)))
	r2 := s.Process(testsupport.Frame(testsupport.At(4), squat(170)))
	feed(s, 6, squat, 85)

	assert.Equal(t, "Stand tall", r0.Announced)
	assert.True(t, r1.Counted)
	assert.Empty(t, r1.Announced)
	assert.Empty(t, r2.Announced)
	assert.Equal(t, []string{"Stand tall", "Great! 2 squats done!"}, rec.said)
}

func TestSafetyAlertIsSpoken(t *testing.T) {
	s, rec := newSession(t, "chair_squat")

	bent := testsupport.With(testsupport.Standing(), pose.Nose, 0.10, 0.40)
	s.Process(testsupport.Frame(testsupport.At(0), bent))

	require.NotEmpty(t, rec.said)
	assert.Equal(t, "Safety alert: Avoid bending too far forward", rec.said[0])
	assert.Equal(t, 95, s.SafetyScore())
}

func TestEmergencyStop(t *testing.T) {
	s, rec := newSession(t, "bicep_curl")

	feed(s, 0, curl, 170, 40)
	s.EmergencyStop(testsupport.At(2))

	assert.Nil(t, s.Mode())
	assert.Equal(t, coach.EmergencyStopAlert, rec.said[len(rec.said)-1])

	res := feed(s, 3, curl, 170, 40, 170)
	assert.Equal(t, 0.0, s.RepCount())
	assert.Equal(t, 0.0, s.Tally("bicep_curl"))
	assert.Contains(t, res[2].Overlay, coach.NoModeSelected)
	assert.Contains(t, res[2].Overlay, "! "+coach.EmergencyStopAlert)

	require.NoError(t, s.SelectMode("bicep_curl"))
	feed(s, 10, curl, 40, 170)
	assert.Equal(t, 1.0, s.RepCount())
}

func TestResetCount(t *testing.T) {
	s, _ := newSession(t, "bicep_curl")
	feed(s, 0, curl, 40, 170)
	require.Equal(t, 1.0, s.RepCount())

	s.ResetCount()
	assert.Equal(t, 0.0, s.RepCount())
	assert.Equal(t, "", s.Phase())
}

func TestFormScoreAndScoredOverlay(t *testing.T) {
	s, _ := newSession(t, "pregnancy_squat")

	standing := s.Process(testsupport.Frame(testsupport.At(0), bothKnees(175)))
	assert.Equal(t, 100.0, standing.FormScore)
	assert.Contains(t, standing.Overlay, "Safety: 100/100")

	halfway := s.Process(testsupport.Frame(testsupport.At(1), bothKnees(150)))
	assert.Equal(t, 50.0, halfway.FormScore)
	assert.Equal(t, []string{"Lower slowly to a comfortable depth"}, halfway.Feedback)

	// Knees drifting out past the hips fail the alignment check.
	wide := testsupport.With(bothKnees(120), pose.LeftKnee, 0.30, 0.72)
	res := s.Process(testsupport.Frame(testsupport.At(2), wide))
	assert.Contains(t, res.Feedback, "Keep knees aligned with hips")
}

func TestEmergencyStopBeforeFirstFrameLeavesCooldownToRecording(t *testing.T) {
	table, err := rules.Default()
	require.NoError(t, err)
	logger, _ := logtest.NewNullLogger()
	rec := &recorder{}
	// Wall clock on purpose: the recording below is stamped in the past.
	s := coach.NewSession(table, coach.Options{User: "ana", Announcer: rec, Log: logrus.NewEntry(logger)})

	s.EmergencyStop(time.Time{})
	require.NoError(t, s.SelectMode("squat"))
	feed(s, 0, squat, 170, 85, 170, 85, 170, 85, 170, 85)

	assert.Equal(t, 4.0, s.RepCount())
	assert.Equal(t, []string{
		coach.EmergencyStopAlert,
		"Stand tall",
		"Great! 3 squats done!",
	}, rec.said)
}

func TestEmergencyStopWithoutTimeUsesLastFrame(t *testing.T) {
	s, rec := newSession(t, "squat")
	feed(s, 0, squat, 170)

	s.EmergencyStop(time.Time{})
	require.NoError(t, s.SelectMode("squat"))
	early := s.Process(testsupport.Frame(testsupport.At(3), squat(170)))
	late := s.Process(testsupport.Frame(testsupport.At(6), squat(85)))

	assert.Empty(t, early.Announced)
	assert.Equal(t, "Great! 1 squats done!", late.Announced)
	assert.Equal(t, coach.EmergencyStopAlert, rec.said[1])
}

func TestSummarySpansRecordingClock(t *testing.T) {
	table, err := rules.Default()
	require.NoError(t, err)
	logger, _ := logtest.NewNullLogger()
	s := coach.NewSession(table, coach.Options{User: "ana", Log: logrus.NewEntry(logger)})
	require.NoError(t, s.SelectMode("squat"))

	feed(s, 0, squat, 170, 85, 170)

	sum := s.Summary()
	assert.Equal(t, testsupport.Epoch, sum.StartedAt)
	assert.Equal(t, testsupport.At(2), sum.EndedAt)
	assert.False(t, sum.EndedAt.Before(sum.StartedAt))
}

func TestSafetyAlertsWithoutActiveMode(t *testing.T) {
	s, rec := newSession(t, "pregnancy_squat")
	s.EmergencyStop(testsupport.At(0))

	leaning := testsupport.With(testsupport.Standing(), pose.Nose, 0.50, 0.75)
	res := s.Process(testsupport.Frame(testsupport.At(10), leaning))

	assert.True(t, res.Detected)
	assert.Equal(t, []string{coach.EmergencyStopAlert, "Avoid excessive forward bending"}, s.Alerts())
	assert.Contains(t, res.Overlay, "! Avoid excessive forward bending")
	assert.Equal(t, "Pregnancy safety alert: Avoid excessive forward bending", res.Announced)
	assert.Equal(t, "Pregnancy safety alert: Avoid excessive forward bending", rec.said[len(rec.said)-1])
	assert.Equal(t, 100, s.SafetyScore())
	assert.Equal(t, 0.0, s.Tally("pregnancy_squat"))

	// Back to a safe pose: only the stop notice stays.
	s.Process(testsupport.Frame(testsupport.At(11), testsupport.Standing()))
	assert.Equal(t, []string{coach.EmergencyStopAlert}, s.Alerts())
}
