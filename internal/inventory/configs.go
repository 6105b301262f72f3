package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SetVendorConfig creates or replaces the vendor-wide device settings.
func (s *Store) SetVendorConfig(ctx context.Context, cfg *VendorConfig) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM vendors WHERE id = ?", cfg.VendorID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: vendor %s", ErrNotFound, cfg.VendorID)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO vendor_configs
			   (vendor_id, firmware_version, source_deinterlacing,
			    maintenance_permanent_logs, touchscreen_timeout_secs)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(vendor_id) DO UPDATE SET
			   firmware_version = excluded.firmware_version,
			   source_deinterlacing = excluded.source_deinterlacing,
			   maintenance_permanent_logs = excluded.maintenance_permanent_logs,
			   touchscreen_timeout_secs = excluded.touchscreen_timeout_secs`,
			cfg.VendorID, cfg.FirmwareVersion, boolInt(cfg.SourceDeinterlacing),
			boolInt(cfg.MaintenancePermanentLogs), cfg.TouchscreenTimeoutSecs)
		if err != nil {
			return fmt.Errorf("saving vendor config: %w", err)
		}
		return nil
	})
}

// GetVendorConfig retrieves the vendor-wide device settings.
func (s *Store) GetVendorConfig(ctx context.Context, vendorID string) (*VendorConfig, error) {
	var cfg VendorConfig
	var deinterlacing, permanentLogs int
	err := s.db.QueryRowContext(ctx,
		`SELECT vendor_id, firmware_version, source_deinterlacing,
		        maintenance_permanent_logs, touchscreen_timeout_secs
		 FROM vendor_configs WHERE vendor_id = ?`, vendorID).
		Scan(&cfg.VendorID, &cfg.FirmwareVersion, &deinterlacing,
			&permanentLogs, &cfg.TouchscreenTimeoutSecs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: vendor config for %s", ErrNotFound, vendorID)
		}
		return nil, fmt.Errorf("scanning vendor config: %w", err)
	}
	cfg.SourceDeinterlacing = deinterlacing != 0
	cfg.MaintenancePermanentLogs = permanentLogs != 0
	return &cfg, nil
}

// SetLocationConfig creates or replaces a room's connector wiring.
func (s *Store) SetLocationConfig(ctx context.Context, cfg *LocationConfig) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM locations WHERE id = ?", cfg.LocationID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: location %s", ErrNotFound, cfg.LocationID)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO location_configs
			   (location_id,
			    primary_pr_vconnector, primary_pr_vinput,
			    primary_pn_vconnector, primary_pn_vinput,
			    secondary_pr_vconnector, secondary_pr_vinput,
			    secondary_pn_vconnector, secondary_pn_vinput)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(location_id) DO UPDATE SET
			   primary_pr_vconnector = excluded.primary_pr_vconnector,
			   primary_pr_vinput = excluded.primary_pr_vinput,
			   primary_pn_vconnector = excluded.primary_pn_vconnector,
			   primary_pn_vinput = excluded.primary_pn_vinput,
			   secondary_pr_vconnector = excluded.secondary_pr_vconnector,
			   secondary_pr_vinput = excluded.secondary_pr_vinput,
			   secondary_pn_vconnector = excluded.secondary_pn_vconnector,
			   secondary_pn_vinput = excluded.secondary_pn_vinput`,
			cfg.LocationID,
			cfg.PrimaryPrVconnector, cfg.PrimaryPrVinput,
			cfg.PrimaryPnVconnector, cfg.PrimaryPnVinput,
			cfg.SecondaryPrVconnector, cfg.SecondaryPrVinput,
			cfg.SecondaryPnVconnector, cfg.SecondaryPnVinput)
		if err != nil {
			return fmt.Errorf("saving location config: %w", err)
		}
		return nil
	})
}

// GetLocationConfig retrieves a room's connector wiring.
func (s *Store) GetLocationConfig(ctx context.Context, locationID string) (*LocationConfig, error) {
	var cfg LocationConfig
	err := s.db.QueryRowContext(ctx,
		`SELECT location_id,
		        primary_pr_vconnector, primary_pr_vinput,
		        primary_pn_vconnector, primary_pn_vinput,
		        secondary_pr_vconnector, secondary_pr_vinput,
		        secondary_pn_vconnector, secondary_pn_vinput
		 FROM location_configs WHERE location_id = ?`, locationID).
		Scan(&cfg.LocationID,
			&cfg.PrimaryPrVconnector, &cfg.PrimaryPrVinput,
			&cfg.PrimaryPnVconnector, &cfg.PrimaryPnVinput,
			&cfg.SecondaryPrVconnector, &cfg.SecondaryPrVinput,
			&cfg.SecondaryPnVconnector, &cfg.SecondaryPnVinput)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: location config for %s", ErrNotFound, locationID)
		}
		return nil, fmt.Errorf("scanning location config: %w", err)
	}
	return &cfg, nil
}

// CreateChannel creates a named channel configuration on a capture
// agent. The name must be unique per agent.
func (s *Store) CreateChannel(ctx context.Context, cfg *ChannelConfig) (*ChannelConfig, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: channel name", ErrEmptyValue)
	}
	created := *cfg
	created.ID = uuid.New().String()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM channel_configs WHERE ca_id = ? AND name = ?",
			cfg.CaID, cfg.Name)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: channel %s already configured", ErrInvalidOperation, cfg.Name)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO channel_configs
			   (id, ca_id, name, channel_id_in_device, stream_config_id,
			    audio, audiobitrate, audiochannels, audiopreset, autoframesize,
			    codec, fpslimit, framesize, vbitrate, vencpreset,
			    vkeyframeinterval, vprofile, source_layout)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			created.ID, created.CaID, created.Name, created.ChannelIDInDevice,
			nullString(created.StreamConfigID),
			boolInt(created.Audio), created.Audiobitrate, created.Audiochannels,
			created.Audiopreset, boolInt(created.Autoframesize),
			created.Codec, created.Fpslimit, created.Framesize, created.Vbitrate,
			created.Vencpreset, created.Vkeyframeinterval, created.Vprofile,
			created.SourceLayout)
		if err != nil {
			return fmt.Errorf("inserting channel config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListChannels returns a capture agent's channel configurations in
// name order, so consumers iterate deterministically.
func (s *Store) ListChannels(ctx context.Context, caID string) ([]*ChannelConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ca_id, name, channel_id_in_device, stream_config_id,
		        audio, audiobitrate, audiochannels, audiopreset, autoframesize,
		        codec, fpslimit, framesize, vbitrate, vencpreset,
		        vkeyframeinterval, vprofile, source_layout
		 FROM channel_configs WHERE ca_id = ? ORDER BY name`, caID)
	if err != nil {
		return nil, fmt.Errorf("querying channel configs: %w", err)
	}
	defer rows.Close()

	var channels []*ChannelConfig
	for rows.Next() {
		var c ChannelConfig
		var streamID sql.NullString
		var audio, autoframesize int
		err := rows.Scan(&c.ID, &c.CaID, &c.Name, &c.ChannelIDInDevice, &streamID,
			&audio, &c.Audiobitrate, &c.Audiochannels, &c.Audiopreset, &autoframesize,
			&c.Codec, &c.Fpslimit, &c.Framesize, &c.Vbitrate, &c.Vencpreset,
			&c.Vkeyframeinterval, &c.Vprofile, &c.SourceLayout)
		if err != nil {
			return nil, fmt.Errorf("scanning channel config: %w", err)
		}
		c.StreamConfigID = streamID.String
		c.Audio = audio != 0
		c.Autoframesize = autoframesize != 0
		channels = append(channels, &c)
	}
	return channels, rows.Err()
}

// SetChannelDeviceID maps a channel configuration to its id on the
// physical device.
func (s *Store) SetChannelDeviceID(ctx context.Context, channelID string, deviceID int) error {
	return s.setDeviceID(ctx, "channel_configs", "channel_id_in_device", channelID, deviceID)
}

// CreateRecorder creates a named recorder configuration on a capture
// agent. The name must be unique per agent.
func (s *Store) CreateRecorder(ctx context.Context, cfg *RecorderConfig) (*RecorderConfig, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: recorder name", ErrEmptyValue)
	}
	created := *cfg
	created.ID = uuid.New().String()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM recorder_configs WHERE ca_id = ? AND name = ?",
			cfg.CaID, cfg.Name)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: recorder %s already configured", ErrInvalidOperation, cfg.Name)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO recorder_configs
			   (id, ca_id, name, recorder_id_in_device, output_format,
			    size_limit_in_kbytes, time_limit_in_minutes)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			created.ID, created.CaID, created.Name, created.RecorderIDInDevice,
			created.OutputFormat, created.SizeLimitKBytes, created.TimeLimitMinutes)
		if err != nil {
			return fmt.Errorf("inserting recorder config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRecorders returns a capture agent's recorder configurations in
// name order.
func (s *Store) ListRecorders(ctx context.Context, caID string) ([]*RecorderConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ca_id, name, recorder_id_in_device, output_format,
		        size_limit_in_kbytes, time_limit_in_minutes
		 FROM recorder_configs WHERE ca_id = ? ORDER BY name`, caID)
	if err != nil {
		return nil, fmt.Errorf("querying recorder configs: %w", err)
	}
	defer rows.Close()

	var recorders []*RecorderConfig
	for rows.Next() {
		var r RecorderConfig
		err := rows.Scan(&r.ID, &r.CaID, &r.Name, &r.RecorderIDInDevice,
			&r.OutputFormat, &r.SizeLimitKBytes, &r.TimeLimitMinutes)
		if err != nil {
			return nil, fmt.Errorf("scanning recorder config: %w", err)
		}
		recorders = append(recorders, &r)
	}
	return recorders, rows.Err()
}

// SetRecorderDeviceID maps a recorder configuration to its id on the
// physical device.
func (s *Store) SetRecorderDeviceID(ctx context.Context, recorderID string, deviceID int) error {
	return s.setDeviceID(ctx, "recorder_configs", "recorder_id_in_device", recorderID, deviceID)
}

func (s *Store) setDeviceID(ctx context.Context, table, column, id string, deviceID int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", table, column),
			deviceID, id)
		if err != nil {
			return fmt.Errorf("setting device id: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
		}
		return nil
	})
}

// SetMhpearlConfig creates or replaces a capture agent's scheduling
// agent profile.
func (s *Store) SetMhpearlConfig(ctx context.Context, cfg *MhpearlConfig) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM cas WHERE id = ?", cfg.CaID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: capture agent %s", ErrNotFound, cfg.CaID)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO mhpearl_configs
			   (ca_id, file_search_range_in_sec, update_frequency_in_sec, mhpearl_version)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(ca_id) DO UPDATE SET
			   file_search_range_in_sec = excluded.file_search_range_in_sec,
			   update_frequency_in_sec = excluded.update_frequency_in_sec,
			   mhpearl_version = excluded.mhpearl_version`,
			cfg.CaID, cfg.FileSearchRangeSec, cfg.UpdateFrequencySec, cfg.Version)
		if err != nil {
			return fmt.Errorf("saving mhpearl config: %w", err)
		}
		return nil
	})
}

// GetMhpearlConfig retrieves a capture agent's scheduling agent profile.
func (s *Store) GetMhpearlConfig(ctx context.Context, caID string) (*MhpearlConfig, error) {
	var cfg MhpearlConfig
	err := s.db.QueryRowContext(ctx,
		`SELECT ca_id, file_search_range_in_sec, update_frequency_in_sec, mhpearl_version
		 FROM mhpearl_configs WHERE ca_id = ?`, caID).
		Scan(&cfg.CaID, &cfg.FileSearchRangeSec, &cfg.UpdateFrequencySec, &cfg.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: mhpearl config for %s", ErrNotFound, caID)
		}
		return nil, fmt.Errorf("scanning mhpearl config: %w", err)
	}
	return &cfg, nil
}

// CreateStreamConfig creates a streaming endpoint configuration.
func (s *Store) CreateStreamConfig(ctx context.Context, cfg *StreamConfig) (*StreamConfig, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: stream config name", ErrEmptyValue)
	}
	created := *cfg
	created.ID = uuid.New().String()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM stream_configs WHERE name = ?", cfg.Name)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: stream config %s already exists", ErrInvalidOperation, cfg.Name)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO stream_configs
			   (id, name, stream_id, primary_url_template,
			    secondary_url_template, stream_name_template)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			created.ID, created.Name, created.StreamID,
			created.PrimaryURLTemplate, created.SecondaryURLTemplate,
			created.StreamNameTemplate)
		if err != nil {
			return fmt.Errorf("inserting stream config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListStreamConfigs returns all streaming endpoint configurations in
// name order.
func (s *Store) ListStreamConfigs(ctx context.Context) ([]*StreamConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, stream_id, primary_url_template,
		        secondary_url_template, stream_name_template
		 FROM stream_configs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying stream configs: %w", err)
	}
	defer rows.Close()

	var configs []*StreamConfig
	for rows.Next() {
		var c StreamConfig
		err := rows.Scan(&c.ID, &c.Name, &c.StreamID, &c.PrimaryURLTemplate,
			&c.SecondaryURLTemplate, &c.StreamNameTemplate)
		if err != nil {
			return nil, fmt.Errorf("scanning stream config: %w", err)
		}
		configs = append(configs, &c)
	}
	return configs, rows.Err()
}

// GetStreamConfig retrieves a streaming endpoint configuration by ID.
func (s *Store) GetStreamConfig(ctx context.Context, id string) (*StreamConfig, error) {
	var c StreamConfig
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, stream_id, primary_url_template,
		        secondary_url_template, stream_name_template
		 FROM stream_configs WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.StreamID, &c.PrimaryURLTemplate,
			&c.SecondaryURLTemplate, &c.StreamNameTemplate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: stream config %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("scanning stream config: %w", err)
	}
	return &c, nil
}

// boolInt maps a bool to the 0/1 integer storage convention.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
