package model

// Reward tiers stored in profiles.reward_tier.  Tiers are recomputed
// whenever a lesson is completed or an engagement is logged.
const (
	TierNone   = "NONE"
	TierBronze = "BRONZE"
	TierSilver = "SILVER"
	TierGold   = "GOLD"
)

// Point weights and tier thresholds.  A completed lesson is worth more than
// a logged conversation; thresholds are cumulative points.
const (
	PointsPerLesson     = 10
	PointsPerEngagement = 5

	bronzeThreshold = 20
	silverThreshold = 60
	goldThreshold   = 120
)

// RewardPoints converts completion and engagement counts into points.
func RewardPoints(completedLessons, engagements int) uint32 {
	if completedLessons < 0 {
		completedLessons = 0
	}
	if engagements < 0 {
		engagements = 0
	}
	return uint32(completedLessons*PointsPerLesson + engagements*PointsPerEngagement)
}

// TierForPoints maps a points total onto a reward tier.
func TierForPoints(points uint32) string {
	switch {
	case points >= goldThreshold:
		return TierGold
	case points >= silverThreshold:
		return TierSilver
	case points >= bronzeThreshold:
		return TierBronze
	default:
		return TierNone
	}
}
