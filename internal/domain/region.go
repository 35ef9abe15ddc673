package domain

// Region - район первого уровня статической географической таксономии
type Region struct {
	ID         string        `json:"id"`
	Name       LocalizedText `json:"name"`
	SubRegions []SubRegion   `json:"sub_regions,omitempty"`
}

// SubRegion - район второго уровня, ID уникален в пределах родителя
type SubRegion struct {
	ID   string        `json:"id"`
	Name LocalizedText `json:"name"`
}

// Region IDs
const (
	RegionHongKongIsland  = "hongkong-island"
	RegionKowloon         = "kowloon"
	RegionNewTerritories  = "new-territories"
	RegionOutlyingIslands = "outlying-islands"
)

// Regions - статическая таксономия районов города
var Regions = []Region{
	{
		ID:   RegionHongKongIsland,
		Name: LocalizedText{"en": "Hong Kong Island", "zh-HK": "香港島", "zh-CN": "香港岛", "ja": "香港島", "fr": "Île de Hong Kong"},
		SubRegions: []SubRegion{
			{ID: "central", Name: LocalizedText{"en": "Central", "zh-HK": "中環", "zh-CN": "中环"}},
			{ID: "wan-chai", Name: LocalizedText{"en": "Wan Chai", "zh-HK": "灣仔", "zh-CN": "湾仔"}},
			{ID: "causeway-bay", Name: LocalizedText{"en": "Causeway Bay", "zh-HK": "銅鑼灣", "zh-CN": "铜锣湾"}},
			{ID: "stanley", Name: LocalizedText{"en": "Stanley", "zh-HK": "赤柱", "zh-CN": "赤柱"}},
		},
	},
	{
		ID:   RegionKowloon,
		Name: LocalizedText{"en": "Kowloon", "zh-HK": "九龍", "zh-CN": "九龙", "ja": "九龍", "fr": "Kowloon"},
		SubRegions: []SubRegion{
			{ID: "tsim-sha-tsui", Name: LocalizedText{"en": "Tsim Sha Tsui", "zh-HK": "尖沙咀", "zh-CN": "尖沙咀"}},
			{ID: "mong-kok", Name: LocalizedText{"en": "Mong Kok", "zh-HK": "旺角", "zh-CN": "旺角"}},
			{ID: "yau-ma-tei", Name: LocalizedText{"en": "Yau Ma Tei", "zh-HK": "油麻地", "zh-CN": "油麻地"}},
			{ID: "kowloon-bay", Name: LocalizedText{"en": "Kowloon Bay", "zh-HK": "九龍灣", "zh-CN": "九龙湾"}},
		},
	},
	{
		ID:   RegionNewTerritories,
		Name: LocalizedText{"en": "New Territories", "zh-HK": "新界", "zh-CN": "新界", "ja": "新界", "fr": "Nouveaux Territoires"},
		SubRegions: []SubRegion{
			{ID: "sha-tin", Name: LocalizedText{"en": "Sha Tin", "zh-HK": "沙田", "zh-CN": "沙田"}},
			{ID: "tuen-mun", Name: LocalizedText{"en": "Tuen Mun", "zh-HK": "屯門", "zh-CN": "屯门"}},
			{ID: "tsuen-wan", Name: LocalizedText{"en": "Tsuen Wan", "zh-HK": "荃灣", "zh-CN": "荃湾"}},
			{ID: "tseung-kwan-o", Name: LocalizedText{"en": "Tseung Kwan O", "zh-HK": "將軍澳", "zh-CN": "将军澳"}},
		},
	},
	{
		ID:   RegionOutlyingIslands,
		Name: LocalizedText{"en": "Outlying Islands", "zh-HK": "離島", "zh-CN": "离岛", "ja": "離島", "fr": "Îles périphériques"},
		SubRegions: []SubRegion{
			{ID: "lantau", Name: LocalizedText{"en": "Lantau Island", "zh-HK": "大嶼山", "zh-CN": "大屿山"}},
			{ID: "cheung-chau", Name: LocalizedText{"en": "Cheung Chau", "zh-HK": "長洲", "zh-CN": "长洲"}},
			{ID: "lamma", Name: LocalizedText{"en": "Lamma Island", "zh-HK": "南丫島", "zh-CN": "南丫岛"}},
		},
	},
}

// FindRegion ищет район по ID. Промах не является ошибкой.
func FindRegion(id string) (*Region, bool) {
	for i := range Regions {
		if Regions[i].ID == id {
			return &Regions[i], true
		}
	}
	return nil, false
}

// FindSubRegion ищет подрайон внутри района
func FindSubRegion(regionID, subRegionID string) (*SubRegion, bool) {
	r, ok := FindRegion(regionID)
	if !ok {
		return nil, false
	}
	for i := range r.SubRegions {
		if r.SubRegions[i].ID == subRegionID {
			return &r.SubRegions[i], true
		}
	}
	return nil, false
}

// RegionName возвращает локализованное название района и подрайона ("Central, Hong Kong Island").
// Неизвестные ID дают пустую строку.
func RegionName(regionID, subRegionID string, locale Locale) string {
	r, ok := FindRegion(regionID)
	if !ok {
		return ""
	}
	name := r.Name.Resolve(locale)
	if sr, ok := FindSubRegion(regionID, subRegionID); ok {
		return sr.Name.Resolve(locale) + ", " + name
	}
	return name
}
