package area

import (
	"io"
	"strconv"
	"strings"

	"github.com/duskrealm/mudforge/internal/model"
)

// ParseObjects reads a `.obj` file and returns every object template it
// contains.
func ParseObjects(file string, r io.Reader) ([]*model.ObjectTemplate, error) {
	sc := newLineScanner(file, r)
	var objs []*model.ObjectTemplate

	for {
		line, ok := sc.next()
		if !ok {
			return objs, nil
		}
		if isFileTerminator(line) {
			return objs, nil
		}
		vnum, ok := vnumHeader(line)
		if !ok {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return objs, sc.errf("expected object header, got %q", line)
		}

		obj, err := parseObjectRecord(sc, vnum)
		if err != nil {
			return objs, err
		}
		objs = append(objs, obj)
	}
}

func parseObjectRecord(sc *lineScanner, vnum int) (*model.ObjectTemplate, error) {
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
	actionDesc, err := sc.tildeString()
	if err != nil {
		return nil, err
	}

	typeLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing object type/flags line")
	}
	typeFields := strings.Fields(typeLine)
	if len(typeFields) < 3 {
		return nil, sc.errf("object type/flags line: expected at least 3 fields, got %q", typeLine)
	}
	objType, err := strconv.Atoi(typeFields[0])
	if err != nil {
		return nil, sc.errf("object type: %v", err)
	}
	extraFlags, err := strconv.Atoi(typeFields[1])
	if err != nil {
		return nil, sc.errf("object extra flags: %v", err)
	}
	wearFlags, err := strconv.Atoi(typeFields[2])
	if err != nil {
		return nil, sc.errf("object wear flags: %v", err)
	}
	// A fourth "anti" flags field is optional and currently unused by any
	// modeled behavior; accepted but not stored.

	valuesLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing object values line")
	}
	values, err := intFields(valuesLine, 4)
	if err != nil {
		return nil, sc.errf("object values line: %v", err)
	}

	weightLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing object weight/cost/rent line")
	}
	weightFields, err := intFields(weightLine, 3)
	if err != nil {
		return nil, sc.errf("object weight/cost/rent line: %v", err)
	}

	tmpl := &model.ObjectTemplate{
		Vnum:              model.Vnum(vnum),
		Keywords:          keywords,
		ShortDesc:         shortDesc,
		LongDesc:          longDesc,
		ActionDesc:        actionDesc,
		Type:              model.ObjectType(objType),
		ExtraFlags:        model.ExtraFlag(extraFlags),
		WearFlags:         model.WearFlag(wearFlags),
		Values:            [4]int{values[0], values[1], values[2], values[3]},
		Weight:            weightFields[0],
		Cost:              weightFields[1],
		RentPerDay:        weightFields[2],
		Applies:           make(map[model.ApplyType]int),
		ExtraDescriptions: make(map[string]string),
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

		switch trimmed {
		case "A":
			applyTypeLine, ok := sc.next()
			if !ok {
				return nil, sc.errf("missing apply type after A block")
			}
			applyValueLine, ok := sc.next()
			if !ok {
				return nil, sc.errf("missing apply value after A block")
			}
			applyValue, err := strconv.Atoi(strings.TrimSpace(applyValueLine))
			if err != nil {
				return nil, sc.errf("apply value not an integer: %q", applyValueLine)
			}
			tmpl.Applies[model.ApplyType(strings.TrimSpace(applyTypeLine))] = applyValue
		case "E":
			keywordsField, err := sc.tildeString()
			if err != nil {
				return nil, err
			}
			description, err := sc.tildeString()
			if err != nil {
				return nil, err
			}
			tmpl.ExtraDescriptions[keywordsField] = description
		default:
			return nil, sc.errf("unrecognized object annotation line: %q", line)
		}
	}
}
