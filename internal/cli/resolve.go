package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
)

// currentPlan loads the plan commands address.
func currentPlan(ctx context.Context, app *App) (*domain.DevelopmentPlan, error) {
	snap, err := app.Plans.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Plan, nil
}

// resolveSkillIndex resolves a skill identifier which can be:
//   - A numeric index as shown by "plan show"
//   - A skill name (case-insensitive)
func resolveSkillIndex(p *domain.DevelopmentPlan, input string) (int, error) {
	if idx, err := strconv.Atoi(input); err == nil {
		return idx, nil
	}
	if idx := p.SkillIndex(input); idx >= 0 {
		return idx, nil
	}
	return 0, domain.NewUnknownItem("no skill %q in the plan", input)
}

// resolveTipID resolves a full tip ID or a unique prefix of one, as shown
// truncated by "plan show".
func resolveTipID(p *domain.DevelopmentPlan, input string) (string, error) {
	var matches []string
	for _, s := range p.Skills {
		for _, t := range s.Tips {
			if t.ID == input {
				return t.ID, nil
			}
			if strings.HasPrefix(t.ID, input) {
				matches = append(matches, t.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", domain.NewUnknownItem("no tip %q in the plan", input)
	case 1:
		return matches[0], nil
	default:
		return "", domain.NewInvalidInput("tip prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// skillOfTip returns the index of the skill holding the tip.
func skillOfTip(p *domain.DevelopmentPlan, tipID string) int {
	for i, s := range p.Skills {
		for _, t := range s.Tips {
			if t.ID == tipID {
				return i
			}
		}
	}
	return -1
}

// resolveThreadKey builds a thread key from the --skill or --tip flag.
func resolveThreadKey(p *domain.DevelopmentPlan, skill, tip string) (domain.ThreadKey, error) {
	switch {
	case skill != "" && tip != "":
		return domain.ThreadKey{}, fmt.Errorf("use either --skill or --tip, not both")
	case tip != "":
		id, err := resolveTipID(p, tip)
		if err != nil {
			return domain.ThreadKey{}, err
		}
		return domain.ThreadKey{TipID: id}, nil
	case skill != "":
		idx, err := resolveSkillIndex(p, skill)
		if err != nil {
			return domain.ThreadKey{}, err
		}
		if idx < 0 || idx >= len(p.Skills) {
			return domain.ThreadKey{}, domain.NewUnknownItem("no skill at index %d", idx)
		}
		return domain.ThreadKey{Skill: p.Skills[idx].Name}, nil
	default:
		return domain.ThreadKey{}, fmt.Errorf("a thread needs --skill or --tip")
	}
}
