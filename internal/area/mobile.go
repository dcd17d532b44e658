package area

import (
	"io"
	"strconv"
	"strings"

	"github.com/duskrealm/mudforge/internal/model"
)

// ParseMobiles reads a `.mob` file and returns every mobile template it
// contains.
func ParseMobiles(file string, r io.Reader) ([]*model.MobileTemplate, error) {
	sc := newLineScanner(file, r)
	var mobs []*model.MobileTemplate

	for {
		line, ok := sc.next()
		if !ok {
			return mobs, nil
		}
		if isFileTerminator(line) {
			return mobs, nil
		}
		vnum, ok := vnumHeader(line)
		if !ok {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return mobs, sc.errf("expected mobile header, got %q", line)
		}

		mob, err := parseMobileRecord(sc, vnum)
		if err != nil {
			return mobs, err
		}
		mobs = append(mobs, mob)
	}
}

func parseMobileRecord(sc *lineScanner, vnum int) (*model.MobileTemplate, error) {
	keywords, err := sc.tildeString()
	if err != nil {
		return nil, err
	}
	shortDesc, err := sc.tildeString()
	if err != nil {
		return nil, err
	}
	longDesc, err := sc.tildeString()
	if err != nil {
		return nil, err
	}
	detailDesc, err := sc.tildeString()
	if err != nil {
		return nil, err
	}

	flagsLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing mobile flags line")
	}
	flagsFields := strings.Fields(flagsLine)
	if len(flagsFields) != 6 {
		return nil, sc.errf("mobile flags line: expected 6 fields, got %q", flagsLine)
	}
	actionFlags, err := strconv.Atoi(flagsFields[0])
	if err != nil {
		return nil, sc.errf("mobile flags line: %v", err)
	}
	affectionFlags, err := strconv.Atoi(flagsFields[1])
	if err != nil {
		return nil, sc.errf("mobile flags line: %v", err)
	}
	alignment, err := strconv.Atoi(flagsFields[2])
	if err != nil {
		return nil, sc.errf("mobile flags line: %v", err)
	}
	// flagsFields[3] hitroll, flagsFields[4] damroll are placeholders the
	// spec leaves unused beyond the stats line's own dice fields.
	defaultPos := parsePositionChar(flagsFields[5])

	statsLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing mobile stats line")
	}
	statsFields := strings.Fields(statsLine)
	if len(statsFields) != 5 {
		return nil, sc.errf("mobile stats line: expected 5 fields, got %q", statsLine)
	}
	level, err := strconv.Atoi(statsFields[0])
	if err != nil {
		return nil, sc.errf("mobile stats line: %v", err)
	}
	ac, err := strconv.Atoi(statsFields[2])
	if err != nil {
		return nil, sc.errf("mobile stats line: %v", err)
	}
	hpDice, err := parseDiceExpr(statsFields[3])
	if err != nil {
		return nil, sc.errf("mobile hp dice: %v", err)
	}
	damDice, err := parseDiceExpr(statsFields[4])
	if err != nil {
		return nil, sc.errf("mobile dam dice: %v", err)
	}

	expGoldLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing experience/gold line")
	}
	expGold, err := intFields(expGoldLine, 2)
	if err != nil {
		return nil, sc.errf("experience/gold line: %v", err)
	}

	posSexLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing position/sex line")
	}
	posSexFields := strings.Fields(posSexLine)
	if len(posSexFields) != 3 {
		return nil, sc.errf("position/sex line: expected 3 fields, got %q", posSexLine)
	}
	sex := model.Sex(0)
	if n, err := strconv.Atoi(posSexFields[2]); err == nil {
		sex = model.Sex(n)
	}

	abilityLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing ability score line")
	}
	ability, err := intFields(abilityLine, 8)
	if err != nil {
		return nil, sc.errf("ability score line: %v", err)
	}

	tmpl := &model.MobileTemplate{
		Vnum:           model.Vnum(vnum),
		Keywords:       keywords,
		ShortDesc:      shortDesc,
		LongDesc:       longDesc,
		DetailDesc:     detailDesc,
		Level:          level,
		MaxHP:          diceMean(hpDice),
		ArmorClass:     ac,
		DamageDice:     damDice,
		Experience:     expGold[0],
		Gold:           expGold[1],
		Alignment:      alignment,
		ActionFlags:    model.ActionFlag(actionFlags),
		AffectionFlags: model.AffectionFlag(affectionFlags),
		DefaultPos:     defaultPos,
		Sex:            sex,
		Str:            ability[0],
		StrAdd:         ability[1],
		Intel:          ability[2],
		Wis:            ability[3],
		Dex:            ability[4],
		Con:            ability[5],
		Cha:            ability[6],
		Size:           ability[7],
		Skills:         make(map[string]int),
	}
	for {
		line, ok := sc.next()
		if !ok {
			return tmpl, nil
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isFileTerminator(line) {
			sc.pushBack(line)
			return tmpl, nil
		}
		if _, ok := vnumHeader(line); ok {
			sc.pushBack(line)
			return tmpl, nil
		}

		switch {
		case strings.HasPrefix(trimmed, "SKILL="):
			rest := strings.Fields(strings.TrimPrefix(trimmed, "SKILL="))
			if len(rest) != 2 {
				return nil, sc.errf("malformed SKILL= line: %q", line)
			}
			pct, err := strconv.Atoi(rest[1])
			if err != nil {
				return nil, sc.errf("malformed SKILL= percentile: %q", line)
			}
			tmpl.Skills[rest[0]] = pct
		case strings.HasPrefix(trimmed, "ATTACK_SKILL="):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "ATTACK_SKILL=")))
			if err != nil {
				return nil, sc.errf("malformed ATTACK_SKILL= line: %q", line)
			}
			tmpl.AttackSkills = append(tmpl.AttackSkills, n)
		case strings.HasPrefix(trimmed, "ATTACK_TYPE="):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "ATTACK_TYPE=")))
			if err != nil {
				return nil, sc.errf("malformed ATTACK_TYPE= line: %q", line)
			}
			tmpl.AttackTypes = append(tmpl.AttackTypes, n)
		default:
			return nil, sc.errf("unrecognized mobile annotation line: %q", line)
		}
	}
}

func parsePositionChar(s string) model.Position {
	if s == "S" {
		return model.PositionStanding
	}
	if n, err := strconv.Atoi(s); err == nil {
		return model.Position(n)
	}
	return model.PositionStanding
}

// parseDiceExpr parses a `<count>d<sides>+<bonus>` expression.
func parseDiceExpr(s string) (model.Dice, error) {
	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		return model.Dice{}, &ParseError{Reason: "missing 'd' in dice expression: " + s}
	}
	count, err := strconv.Atoi(s[:dIdx])
	if err != nil {
		return model.Dice{}, err
	}

	rest := s[dIdx+1:]
	bonus := 0
	sides := rest
	if plusIdx := strings.IndexByte(rest, '+'); plusIdx >= 0 {
		sides = rest[:plusIdx]
		bonus, err = strconv.Atoi(rest[plusIdx+1:])
		if err != nil {
			return model.Dice{}, err
		}
	} else if minusIdx := strings.IndexByte(rest, '-'); minusIdx >= 0 {
		sides = rest[:minusIdx]
		neg, err := strconv.Atoi(rest[minusIdx+1:])
		if err != nil {
			return model.Dice{}, err
		}
		bonus = -neg
	}

	sidesN, err := strconv.Atoi(sides)
	if err != nil {
		return model.Dice{}, err
	}
	return model.Dice{Count: count, Sides: sidesN, Bonus: bonus}, nil
}

func diceMean(d model.Dice) int {
	if d.Sides <= 0 {
		return d.Bonus
	}
	return d.Count*(d.Sides+1)/2 + d.Bonus
}
