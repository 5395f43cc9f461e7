package match

import (
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

// Rule is one matching rule in an object type's catalog.
type Rule struct {
	ID       string
	Priority model.Priority
	Key      KeyFunc
}

// Detector finds duplicate groups within one platform's records by
// running an ordered, fixed catalog of matching rules per object type.
// Rules run independently: a record may appear in groups from several
// rules, and overlapping groups are not merged. Reports surface all
// signal and resolution is the reader's job.
type Detector struct {
	catalog map[model.ObjectType][]Rule
}

// NewDetector builds a detector with the default rule catalog.
func NewDetector() *Detector {
	return &Detector{catalog: map[model.ObjectType][]Rule{
		model.ObjectContact: {
			{ID: "email", Priority: model.PriorityHigh, Key: contactEmailKey},
			{ID: "phone", Priority: model.PriorityMedium, Key: contactPhoneKey},
			{ID: "name", Priority: model.PriorityLow, Key: contactNameKey},
			{ID: "company_name", Priority: model.PriorityMedium, Key: contactCompanyNameKey},
		},
		model.ObjectCompany: {
			{ID: "domain", Priority: model.PriorityHigh, Key: companyDomainKey},
			{ID: "name", Priority: model.PriorityMedium, Key: companyNameKey},
		},
		model.ObjectDeal: {
			{ID: "name", Priority: model.PriorityMedium, Key: dealNameKey},
		},
	}}
}

// Rules returns the catalog for one object type in rule order.
func (d *Detector) Rules(object model.ObjectType) []Rule {
	return d.catalog[object]
}

// Detect runs every rule for the object type and emits one group per
// bucket with more than one member. Group member order is the source
// collection's encounter order; the first member is the primary.
func (d *Detector) Detect(records []model.Record, object model.ObjectType) []model.DuplicateGroup {
	log := zap.L().With(zap.String("component", "duplicate_detector"), zap.String("object", string(object)))

	var groups []model.DuplicateGroup
	for _, rule := range d.catalog[object] {
		ix := BuildIndex(records, rule.Key)
		dupKeys := ix.DuplicateKeys()
		for _, k := range dupKeys {
			groups = append(groups, model.DuplicateGroup{
				MatchedKey:   k,
				RuleID:       rule.ID,
				Priority:     rule.Priority,
				PrimaryIndex: 0,
				Members:      ix.Bucket(k),
			})
		}
		log.Debug("rule pass complete",
			zap.String("rule", rule.ID),
			zap.Int("keys", ix.Len()),
			zap.Int("duplicate_groups", len(dupKeys)),
		)
	}

	log.Info("duplicate detection complete",
		zap.Int("records", len(records)),
		zap.Int("groups", len(groups)),
	)
	return groups
}

func contactEmailKey(r model.Record) (string, bool) {
	return normalize.EmailKey(normalize.Email(r))
}

func contactPhoneKey(r model.Record) (string, bool) {
	return normalize.PhoneKey(normalize.Phone(r))
}

func contactNameKey(r model.Record) (string, bool) {
	return normalize.NameKey(normalize.FirstName(r), normalize.LastName(r))
}

func contactCompanyNameKey(r model.Record) (string, bool) {
	company, ok := normalize.TextKey(normalize.CompanyName(r))
	if !ok {
		return "", false
	}
	name, ok := normalize.NameKey(normalize.FirstName(r), normalize.LastName(r))
	if !ok {
		return "", false
	}
	return company + "|" + name, true
}

func companyDomainKey(r model.Record) (string, bool) {
	return normalize.TextKey(normalize.Domain(r))
}

func companyNameKey(r model.Record) (string, bool) {
	return normalize.TextKey(r.Raw("name"))
}

func dealNameKey(r model.Record) (string, bool) {
	return normalize.TextKey(normalize.DealName(r))
}
