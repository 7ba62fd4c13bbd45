package rules

import (
	"math"

	"github.com/misterclayt0n/repcoach/internal/pose"
)

func bilateral(joints ...Joint) Metric {
	return Metric{Kind: MetricAngle, Joints: joints}
}

func offset(kind MetricKind, pairs ...Pair) Metric {
	return Metric{Kind: kind, Pairs: pairs}
}

func group(ids ...pose.LandmarkID) Group { return Group(ids) }

// Builtin returns the stock exercise modes. Senior and pregnancy variants use narrower depth
// bands than their general counterparts.
func Builtin() []Mode {
	shoulders := group(pose.LeftShoulder, pose.RightShoulder)
	hips := group(pose.LeftHip, pose.RightHip)

	return []Mode{
		// General fitness.
		{
			ID:     "bicep_curl",
			Name:   "Bicep Curl",
			Family: General,
			Metric: AngleAt(pose.RightShoulder, pose.RightElbow, pose.RightWrist),
			// Counted once the curled arm is lowered back to full extension.
			Start:     Phase{Name: "up", Band: Below(50)},
			Target:    Phase{Name: "down", Band: Above(160)},
			Increment: 1,
			Feedback: Feedback{
				Start:    "Now lower your arm slowly",
				Target:   "Curl your arm!",
				Rep:      "Good job! {reps} reps completed!",
				Increase: "Lower your arm all the way",
				Decrease: "Keep curling!",
				Cue:      "Lower your arm",
			},
		},
		{
			ID:        "squat",
			Name:      "Squat",
			Family:    General,
			Metric:    AngleAt(pose.RightHip, pose.RightKnee, pose.RightAnkle),
			Start:     Phase{Name: "up", Band: Above(160)},
			Target:    Phase{Name: "down", Band: Below(90)},
			Increment: 1,
			Feedback: Feedback{
				Start:    "Stand tall!",
				Target:   "Good depth, now drive up",
				Rep:      "Great! {reps} squats done!",
				Increase: "Stand all the way up",
				Decrease: "Go deeper!",
				Cue:      "Stand tall",
			},
		},
		{
			ID:        "push_up",
			Name:      "Push-up",
			Family:    General,
			Metric:    AngleAt(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist),
			Start:     Phase{Name: "up", Band: Above(160)},
			Target:    Phase{Name: "down", Band: Below(90)},
			Increment: 1,
			Feedback: Feedback{
				Start:    "Arms locked, now go down",
				Target:   "Push up!",
				Rep:      "Push-up done! That's {reps}",
				Increase: "Push up!",
				Decrease: "Go down!",
				Cue:      "Go down",
			},
		},
		{
			ID:        "shoulder_press",
			Name:      "Shoulder Press",
			Family:    General,
			Metric:    AngleAt(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist),
			Start:     Phase{Name: "down", Band: Below(90)},
			Target:    Phase{Name: "up", Band: Above(160)},
			Increment: 1,
			Feedback: Feedback{
				Start:    "Press up!",
				Target:   "Lower down!",
				Rep:      "One shoulder press done! Total {reps}",
				Increase: "Push up!",
				Decrease: "Lower down!",
				Cue:      "Lower down",
			},
		},

		// Yoga holds: a rep is one entry into the correct pose.
		{
			ID:     "mountain_pose",
			Name:   "Mountain Pose",
			Family: Yoga,
			Metric: offset(MetricVerticalOffset,
				Pair{From: group(pose.LeftShoulder), To: group(pose.RightShoulder)},
				Pair{From: group(pose.LeftHip), To: group(pose.RightHip)},
			),
			Start:     Phase{Name: "misaligned", Band: Outside(math.Inf(-1), 0.02)},
			Target:    Phase{Name: "aligned", Band: Below(0.02)},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Level your shoulders and hips",
				Target: "Great Mountain Pose, breathe and hold",
				Rep:    "Aligned. {reps} holds",
			},
			Checks: []Check{
				{
					Name:     "shoulders level",
					Metric:   offset(MetricVerticalOffset, Pair{From: group(pose.LeftShoulder), To: group(pose.RightShoulder)}),
					Band:     Below(0.02),
					Feedback: "Level your shoulders",
				},
				{
					Name:     "hips level",
					Metric:   offset(MetricVerticalOffset, Pair{From: group(pose.LeftHip), To: group(pose.RightHip)}),
					Band:     Below(0.02),
					Feedback: "Align hips evenly",
				},
			},
		},
		{
			ID:        "warrior_ii",
			Name:      "Warrior II",
			Family:    Yoga,
			Metric:    AngleAt(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle),
			Start:     Phase{Name: "incorrect", Band: Outside(80, 100)},
			Target:    Phase{Name: "correct", Band: Between(80, 100)},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Bend front knee to 90 degrees",
				Target: "Strong Warrior II, hold it",
				Rep:    "Warrior II held. {reps} holds",
			},
		},
		{
			ID:     "tree_pose",
			Name:   "Tree Pose",
			Family: Yoga,
			Metric: offset(MetricHorizontalOffset,
				Pair{From: group(pose.LeftAnkle), To: group(pose.RightKnee)},
			),
			Start:     Phase{Name: "unbalanced", Band: Outside(math.Inf(-1), 0.05)},
			Target:    Phase{Name: "balanced", Band: Below(0.05)},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Place foot firmly on inner thigh",
				Target: "Balanced, keep your gaze steady",
				Rep:    "Tree Pose balanced. {reps} holds",
			},
		},
		{
			ID:        "downward_dog",
			Name:      "Downward Dog",
			Family:    Yoga,
			Metric:    AngleAt(pose.LeftWrist, pose.LeftHip, pose.LeftAnkle),
			Start:     Phase{Name: "incorrect", Band: Outside(75, 105)},
			Target:    Phase{Name: "v_shape", Band: Between(75, 105)},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Create a V shape with your hips high",
				Target: "Nice inverted V, press the heels down",
				Rep:    "Downward Dog held. {reps} holds",
			},
		},

		// Senior-safe.
		{
			ID:     "chair_squat",
			Name:   "Chair Squats",
			Family: Senior,
			Metric: AngleAt(pose.LeftShoulder, pose.LeftHip, pose.LeftKnee),
			// Partial squat only; counted on the way back up.
			Start:     Phase{Name: "down", Band: Between(120, 150)},
			Target:    Phase{Name: "up", Band: Above(150)},
			Increment: 1,
			Feedback: Feedback{
				Start:    "Good! Now slowly stand back up",
				Target:   "Lower gently toward the chair",
				Rep:      "Excellent! You've completed {reps} squats",
				Increase: "Don't squat too deep - keep it gentle",
				Decrease: "Lower gently toward the chair",
				Cue:      "Good! Now slowly stand back up",
			},
		},
		{
			ID:        "arm_raise",
			Name:      "Arm Raises",
			Family:    Senior,
			Metric:    AngleAt(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist),
			Start:     Phase{Name: "up", Band: Above(150)},
			Target:    Phase{Name: "down", Band: Below(150)},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Good lift! Now slowly lower your arm",
				Target: "Slowly raise your arm",
				Rep:    "Perfect! That's {reps} arm raises",
				Cue:    "Good lift! Now slowly lower your arm",
			},
		},
		{
			ID:        "leg_lift",
			Name:      "Leg Lifts",
			Family:    Senior,
			Metric:    AngleAt(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle),
			Start:     Phase{Name: "up", Band: Between(130, 160)},
			Target:    Phase{Name: "down", Band: Outside(130, 160)},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Nice leg lift! Hold for a moment",
				Target: "Lift your leg gently, hold a chair if needed",
				Rep:    "Great control! {reps} leg lifts done",
				Cue:    "Nice leg lift! Hold for a moment",
			},
		},
		{
			ID:     "neck_rotation",
			Name:   "Neck Rotations",
			Family: Senior,
			Metric: offset(MetricHorizontalOffset,
				Pair{From: group(pose.Nose), To: shoulders},
			),
			// Each side counts half a rotation.
			Start:     Phase{Name: "turned", Band: Between(0.05, 0.15)},
			Target:    Phase{Name: "center", Band: Outside(0.05, 0.15)},
			Increment: 0.5,
			Feedback: Feedback{
				Start:  "Good neck turn. Now slowly return to center",
				Target: "Turn your head gently to one side",
				Rep:    "Excellent neck mobility",
				Cue:    "Good neck turn. Now slowly return to center",
			},
		},

		// Pregnancy-safe.
		{
			ID:     "pregnancy_squat",
			Name:   "Pregnancy Squats",
			Family: Pregnancy,
			Metric: bilateral(
				Joint{A: pose.LeftHip, Vertex: pose.LeftKnee, C: pose.LeftAnkle},
				Joint{A: pose.RightHip, Vertex: pose.RightKnee, C: pose.RightAnkle},
			),
			Start:     Phase{Name: "down", Band: Between(100, 140)},
			Target:    Phase{Name: "up", Band: Above(160)},
			Increment: 1,
			Feedback: Feedback{
				Start:    "Good squat depth. Now slowly stand up",
				Target:   "Lower slowly to a comfortable depth",
				Rep:      "Excellent! You've completed {reps} safe squats",
				Increase: "Return to full standing position",
				Decrease: "Lower slowly to a comfortable depth",
				Cue:      "Good squat depth. Now slowly stand up",
			},
			Checks: []Check{
				{
					Name: "knees over hips",
					Metric: offset(MetricHorizontalOffset,
						Pair{From: group(pose.LeftKnee), To: group(pose.LeftHip)},
						Pair{From: group(pose.RightKnee), To: group(pose.RightHip)},
					),
					Band:     Below(0.1),
					Feedback: "Keep knees aligned with hips",
				},
			},
		},
		{
			ID:     "pelvic_tilt",
			Name:   "Pelvic Tilts",
			Family: Pregnancy,
			Metric: offset(MetricHorizontalOffset,
				Pair{From: shoulders, To: hips},
			),
			Start:     Phase{Name: "tilt", Band: Above(0.02)},
			Target:    Phase{Name: "neutral", Band: Outside(0.02, math.Inf(1))},
			Increment: 1,
			Feedback: Feedback{
				Start:  "Good pelvic tilt. Now return to neutral",
				Target: "Stand sideways and tilt your pelvis gently",
				Rep:    "Perfect! {reps} pelvic tilts completed",
				Cue:    "Good pelvic tilt. Now return to neutral",
			},
		},
		{
			ID:     "arm_circle",
			Name:   "Arm Circles",
			Family: Pregnancy,
			Metric: offset(MetricElevation,
				Pair{From: group(pose.LeftShoulder), To: group(pose.LeftElbow)},
				Pair{From: group(pose.RightShoulder), To: group(pose.RightElbow)},
			),
			// Half a rep per raise-and-lower.
			Start:     Phase{Name: "raised", Band: Above(0)},
			Target:    Phase{Name: "lowered", Band: Outside(0, math.Inf(1))},
			Increment: 0.5,
			Feedback: Feedback{
				Start:    "Arms raised nicely. Make gentle circles",
				Target:   "Raise both arms gently",
				Rep:      "Good arm movement. {reps} circles done",
				Increase: "Raise both arms gently",
				Decrease: "Lower both arms slowly",
				Cue:      "Arms raised nicely. Make gentle circles",
			},
		},
	}
}
