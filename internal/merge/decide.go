package merge

import "github.com/paper-portal/paperctl/internal/model"

// Decide turns field confidences into a decision and an overall confidence.
//
// The course code's confidence selects the band. From 80 up the overall score
// is the truncated mean of all non-zero confidences and the paper is accepted
// when that mean reaches 60 (70 when only the code is certain). Between 70
// and 80 the mean is reported but the paper always goes to review. Below
// that, the code confidence itself is the overall score: 60-69 is review,
// anything lower is rejected.
func Decide(conf map[model.Field]int) (model.Decision, int) {
	code := conf[model.FieldCourseCode]
	name := conf[model.FieldCourseName]

	switch {
	case code >= 80:
		avg := mean(conf)
		overall := int(avg)
		switch {
		case code == 100 && name >= 70 && avg >= 70:
			return model.DecisionAccept, overall
		case name >= 70 && avg >= 60:
			return model.DecisionAccept, overall
		case avg >= 60:
			return model.DecisionAccept, overall
		}
		return model.DecisionReview, overall
	case code >= 70:
		return model.DecisionReview, int(mean(conf))
	case code >= 60:
		return model.DecisionReview, code
	}
	return model.DecisionReject, code
}

func mean(conf map[model.Field]int) float64 {
	sum, n := 0, 0
	for _, v := range conf {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
