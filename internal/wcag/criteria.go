// Package wcag holds the WCAG success-criterion master list and builds
// the per-analysis coverage matrix over it.
package wcag

// Level is a WCAG conformance level.
type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// Criterion is one entry of the immutable master list.
type Criterion struct {
	ID    string `json:"criterion"`
	Level Level  `json:"level"`
	Title string `json:"title"`
}

// masterCriteria is the process-wide master list: all 87 WCAG 2.2 success
// criteria (4.1.1 retained for engines that still report against it).
// Titles follow the Japanese translation of the standard. Never mutated.
var masterCriteria = []Criterion{
	{"1.1.1", LevelA, "非テキストコンテンツ"},
	{"1.2.1", LevelA, "音声のみ及び映像のみ（収録済）"},
	{"1.2.2", LevelA, "キャプション（収録済）"},
	{"1.2.3", LevelA, "音声解説又はメディアに対する代替（収録済）"},
	{"1.2.4", LevelAA, "キャプション（ライブ）"},
	{"1.2.5", LevelAA, "音声解説（収録済）"},
	{"1.2.6", LevelAAA, "手話（収録済）"},
	{"1.2.7", LevelAAA, "拡張音声解説（収録済）"},
	{"1.2.8", LevelAAA, "メディアに対する代替（収録済）"},
	{"1.2.9", LevelAAA, "音声のみ（ライブ）"},
	{"1.3.1", LevelA, "情報及び関係性"},
	{"1.3.2", LevelA, "意味のある順序"},
	{"1.3.3", LevelA, "感覚的な特徴"},
	{"1.3.4", LevelAA, "表示の向き"},
	{"1.3.5", LevelAA, "入力目的の特定"},
	{"1.3.6", LevelAAA, "目的の特定"},
	{"1.4.1", LevelA, "色の使用"},
	{"1.4.2", LevelA, "音声の制御"},
	{"1.4.3", LevelAA, "コントラスト（最低限）"},
	{"1.4.4", LevelAA, "テキストのサイズ変更"},
	{"1.4.5", LevelAA, "文字画像"},
	{"1.4.6", LevelAAA, "コントラスト（高度）"},
	{"1.4.7", LevelAAA, "小さな背景音又は背景音なし"},
	{"1.4.8", LevelAAA, "視覚的提示"},
	{"1.4.9", LevelAAA, "文字画像（例外なし）"},
	{"1.4.10", LevelAA, "リフロー"},
	{"1.4.11", LevelAA, "非テキストのコントラスト"},
	{"1.4.12", LevelAA, "テキストの間隔"},
	{"1.4.13", LevelAA, "ホバー又はフォーカスで表示されるコンテンツ"},
	{"2.1.1", LevelA, "キーボード"},
	{"2.1.2", LevelA, "キーボードトラップなし"},
	{"2.1.3", LevelAAA, "キーボード（例外なし）"},
	{"2.1.4", LevelA, "文字キーのショートカット"},
	{"2.2.1", LevelA, "タイミング調整可能"},
	{"2.2.2", LevelA, "一時停止、停止及び非表示"},
	{"2.2.3", LevelAAA, "タイミング非依存"},
	{"2.2.4", LevelAAA, "割り込み"},
	{"2.2.5", LevelAAA, "再認証"},
	{"2.2.6", LevelAAA, "タイムアウト"},
	{"2.3.1", LevelA, "3回の閃光又は閾値以下"},
	{"2.3.2", LevelAAA, "3回の閃光"},
	{"2.3.3", LevelAAA, "インタラクションによるアニメーション"},
	{"2.4.1", LevelA, "ブロックスキップ"},
	{"2.4.2", LevelA, "ページタイトル"},
	{"2.4.3", LevelA, "フォーカス順序"},
	{"2.4.4", LevelA, "リンクの目的（コンテキスト内）"},
	{"2.4.5", LevelAA, "複数の手段"},
	{"2.4.6", LevelAA, "見出し及びラベル"},
	{"2.4.7", LevelAA, "フォーカスの可視化"},
	{"2.4.8", LevelAAA, "現在位置"},
	{"2.4.9", LevelAAA, "リンクの目的（リンクのみ）"},
	{"2.4.10", LevelAAA, "セクション見出し"},
	{"2.4.11", LevelAA, "隠されないフォーカス（最低限）"},
	{"2.4.12", LevelAAA, "隠されないフォーカス（高度）"},
	{"2.4.13", LevelAAA, "フォーカスの外観"},
	{"2.5.1", LevelA, "ポインタのジェスチャ"},
	{"2.5.2", LevelA, "ポインタのキャンセル"},
	{"2.5.3", LevelA, "名前（name）のラベル"},
	{"2.5.4", LevelA, "動きによる起動"},
	{"2.5.5", LevelAAA, "ターゲットのサイズ（高度）"},
	{"2.5.6", LevelAAA, "入力メカニズム非依存"},
	{"2.5.7", LevelAA, "ドラッグ動作"},
	{"2.5.8", LevelAA, "ターゲットのサイズ（最低限）"},
	{"3.1.1", LevelA, "ページの言語"},
	{"3.1.2", LevelAA, "一部分の言語"},
	{"3.1.3", LevelAAA, "一般的ではない用語"},
	{"3.1.4", LevelAAA, "略語"},
	{"3.1.5", LevelAAA, "読解レベル"},
	{"3.1.6", LevelAAA, "発音"},
	{"3.2.1", LevelA, "フォーカス時"},
	{"3.2.2", LevelA, "入力時"},
	{"3.2.3", LevelAA, "一貫したナビゲーション"},
	{"3.2.4", LevelAA, "一貫した識別性"},
	{"3.2.5", LevelAAA, "要求による変化"},
	{"3.2.6", LevelA, "一貫したヘルプ"},
	{"3.3.1", LevelA, "エラーの特定"},
	{"3.3.2", LevelA, "ラベル又は説明"},
	{"3.3.3", LevelAA, "エラー修正の提案"},
	{"3.3.4", LevelAA, "エラー回避（法的、金融及びデータ）"},
	{"3.3.5", LevelAAA, "ヘルプ"},
	{"3.3.6", LevelAAA, "エラー回避（すべて）"},
	{"3.3.7", LevelA, "冗長な入力"},
	{"3.3.8", LevelAA, "アクセシブルな認証（最低限）"},
	{"3.3.9", LevelAAA, "アクセシブルな認証（高度）"},
	{"4.1.1", LevelA, "構文解析"},
	{"4.1.2", LevelA, "名前（name）・役割（role）及び値（value）"},
	{"4.1.3", LevelAA, "ステータスメッセージ"},
}

// revision22Criteria are the success criteria introduced by WCAG 2.2.
// Findings mapped to any of them are flagged experimental.
var revision22Criteria = map[string]struct{}{
	"2.4.11": {},
	"2.4.12": {},
	"2.4.13": {},
	"2.5.7":  {},
	"2.5.8":  {},
	"3.2.6":  {},
	"3.3.7":  {},
	"3.3.8":  {},
	"3.3.9":  {},
}

// MasterCriteria returns a copy of the master list.
func MasterCriteria() []Criterion {
	return append([]Criterion(nil), masterCriteria...)
}

// CriterionCount is the size of the master list.
const CriterionCount = 87

// IsRevision22 reports whether the criterion was introduced by WCAG 2.2.
func IsRevision22(criterion string) bool {
	_, ok := revision22Criteria[criterion]
	return ok
}

// LookupCriterion returns the master entry for an id.
func LookupCriterion(id string) (Criterion, bool) {
	for _, c := range masterCriteria {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// LevelTotals counts master entries per conformance level.
func LevelTotals() map[Level]int {
	totals := make(map[Level]int, 3)
	for _, c := range masterCriteria {
		totals[c.Level]++
	}
	return totals
}
