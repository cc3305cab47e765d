package widget

import (
	"fmt"
	"math"
	"time"
)

// DdayLabel は目標日までのカウントダウンラベルを計算する。
// 目標日と現在時刻をそれぞれ暦日の0時に丸め、日数差のceilを取る。
// 差が0なら "D-DAY"、正なら残り日数の "D-n"、負なら経過日数の "D+n"。
// targetDateはISO日付（2006-01-02）または日時（RFC3339）を受け付ける。
func DdayLabel(targetDate string, now time.Time) (string, error) {
	target, err := parseNotionDate(targetDate)
	if err != nil {
		return "", err
	}

	// 時刻成分を捨て、閲覧者の暦日同士で比較する
	targetMidnight := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	todayMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	diff := targetMidnight.Sub(todayMidnight)
	days := int(math.Ceil(diff.Hours() / 24))

	switch {
	case days == 0:
		return "D-DAY", nil
	case days > 0:
		return fmt.Sprintf("D-%d", days), nil
	default:
		return fmt.Sprintf("D+%d", -days), nil
	}
}

// parseNotionDate はNotionのdate.startを解釈する。
// 日付のみ（2006-01-02）と日時（RFC3339）の両形式が現れる。
func parseNotionDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日付として解釈できません: %q", s)
	}
	return t, nil
}
