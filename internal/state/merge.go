package state

// tasksKey is the one list-valued key that merges by upsert instead of
// wholesale replacement. It holds task annotation records keyed by
// "task_id", and the asymmetry is deliberate: advisory roles can append
// annotations without clobbering each other, while every other value
// (scalars and all other lists) is replaced outright.
const tasksKey = "tasks"

// DeepMerge merges updates into base in place. The value kinds form a
// closed set: mappings recurse, the tasks annotation list upserts by
// task_id, and everything else replaces.
func DeepMerge(base, updates map[string]any) {
	for key, incoming := range updates {
		existing, present := base[key]

		if present {
			baseMap, baseIsMap := existing.(map[string]any)
			incomingMap, incomingIsMap := incoming.(map[string]any)
			if baseIsMap && incomingIsMap {
				DeepMerge(baseMap, incomingMap)
				continue
			}
		}

		if key == tasksKey {
			baseList, baseIsList := asRecordList(existing)
			incomingList, incomingIsList := asRecordList(incoming)
			if present && baseIsList && incomingIsList {
				base[key] = upsertTasks(baseList, incomingList)
				continue
			}
		}

		base[key] = incoming
	}
}

// upsertTasks folds incoming annotation records into existing ones.
// A record whose task_id matches an existing record overwrites that
// record's fields shallowly; a record with a new or absent task_id is
// appended.
func upsertTasks(existing []any, incoming []any) []any {
	for _, item := range incoming {
		record, ok := item.(map[string]any)
		if !ok {
			existing = append(existing, item)
			continue
		}

		id, _ := record["task_id"].(string)
		target := findTaskRecord(existing, id)
		if target == nil {
			existing = append(existing, record)
			continue
		}

		for field, value := range record {
			target[field] = value
		}
	}
	return existing
}

func findTaskRecord(records []any, id string) map[string]any {
	if id == "" {
		return nil
	}
	for _, item := range records {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if existingID, _ := record["task_id"].(string); existingID == id {
			return record
		}
	}
	return nil
}

// asRecordList accepts both []any and []map[string]any shapes, the
// latter showing up when updates are built in Go rather than decoded
// from JSON.
func asRecordList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []map[string]any:
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// deepCopy returns a structural copy of a state value tree.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	return deepCopy(m).(map[string]any)
}
