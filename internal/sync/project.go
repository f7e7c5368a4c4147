package sync

import "github.com/dmhcommunity/beanbot/internal/models"

// ProjectGrid converts member records and the role catalog into the
// grid written to the sheet: row 0 is the header (base columns, then
// one "Role: {name}" column per catalog entry), followed by one row per
// record. Pure function of its inputs.
func ProjectGrid(records []models.MemberRecord, catalog []string) [][]interface{} {
	header := make([]interface{}, 0, len(models.BaseColumns)+len(catalog))
	for _, label := range models.BaseColumns {
		header = append(header, label)
	}
	for _, name := range catalog {
		header = append(header, "Role: "+name)
	}

	grid := make([][]interface{}, 0, len(records)+1)
	grid = append(grid, header)

	for i := range records {
		record := &records[i]
		row := make([]interface{}, 0, len(header))
		row = append(row,
			record.Username,
			record.DisplayName,
			record.UserID,
			record.Discriminator,
			record.Nickname,
			record.Roles,
			record.HighestRole,
			record.AccountCreated,
			record.AccountAgeDays,
			record.JoinedServer,
			record.ServerAgeDays,
			record.Status,
			yesNo(record.IsOnline),
			record.AvatarURL,
			record.LastSynced,
		)
		for _, name := range catalog {
			row = append(row, yesNo(record.RoleFlags[name]))
		}
		grid = append(grid, row)
	}

	return grid
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
