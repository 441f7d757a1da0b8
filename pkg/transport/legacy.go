package transport

import (
	"github.com/arcturial/clickatell/pkg/diagnostic"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/legacy"
)

// The helpers below turn parsed KEY: value records into envelopes. They are
// shared by the HTTP and SOAP variants, which speak the same text format.

// sendRows builds one {apiMsgId, to, error} row per record. The envelope is a
// failure when any row carries ERR.
func sendRows(set legacy.RecordSet, to string) envelope.Envelope {
	failed := false
	rows := make([]map[string]interface{}, 0, len(set))
	for _, rec := range set {
		id, hasID := rec.Get("ID")
		dest, hasTo := rec.Get("To")
		if !hasTo {
			dest = to
		}
		errVal, hasErr := rec.Get("ERR")
		if hasErr {
			failed = true
		}
		rows = append(rows, map[string]interface{}{
			"apiMsgId": orFalse(id, hasID),
			"to":       dest,
			"error":    orFalse(errVal, hasErr),
		})
	}
	if failed {
		return envelope.Failure(rows)
	}
	return envelope.Success(rows)
}

// sendSingle is the pre-bulk shape: one {apiMsgId} from the first record.
func sendSingle(rec *legacy.Record) envelope.Envelope {
	if errVal, ok := rec.Get("ERR"); ok {
		return envelope.Failure(errVal)
	}
	return envelope.Success(map[string]interface{}{"apiMsgId": rec.Value("ID")})
}

func balance(rec *legacy.Record) envelope.Envelope {
	if errVal, ok := rec.Get("ERR"); ok {
		return envelope.Failure(errVal)
	}
	return envelope.Success(map[string]interface{}{"balance": toFloat(rec.Value("Credit"))})
}

func messageStatus(rec *legacy.Record) envelope.Envelope {
	if errVal, ok := rec.Get("ERR"); ok {
		return envelope.Failure(errVal)
	}
	status := rec.Value("Status")
	return envelope.Success(map[string]interface{}{
		"apiMsgId":    rec.Value("ID"),
		"status":      status,
		"description": diagnostic.Description(status),
	})
}

func coverage(rec *legacy.Record) envelope.Envelope {
	if errVal, ok := rec.Get("ERR"); ok {
		return envelope.Failure(errVal)
	}
	return envelope.Success(map[string]interface{}{
		"description": rec.Value("OK"),
		"charge":      toFloat(rec.Value("Charge")),
	})
}

// messageCharge reads the lower-case keys the charge endpoint replies with.
func messageCharge(rec *legacy.Record) envelope.Envelope {
	if errVal, ok := rec.Get("ERR"); ok {
		return envelope.Failure(errVal)
	}
	status := rec.Value("status")
	return envelope.Success(map[string]interface{}{
		"apiMsgId":    rec.Value("apiMsgId"),
		"status":      status,
		"description": diagnostic.Description(status),
		"charge":      toFloat(rec.Value("charge")),
	})
}
